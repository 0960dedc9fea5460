// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"github.com/pkg/errors"

	"github.com/db47h/netsim/netlist"
)

// RunConfig controls direct netlist execution.
//
type RunConfig struct {
	// Done names the output used as completion flag. Defaults to "done".
	Done string
	// Inputs supplies the external input values, one per name primitive.
	// Missing names read as 0.
	Inputs map[string]uint64
	// MaxCycles bounds the simulation. Defaults to 1 << 20.
	MaxCycles int
}

type memState struct {
	spec  *memSpec
	cells []uint64
	q     []uint64 // registered read word, one per port
}

// Run executes a netlist directly, cycle by cycle, with the exact semantics
// of the generated simulation source: scheduled combinational evaluation,
// exit test, register next-value phase, then a simultaneous commit. It
// returns the encoded named outputs of the cycle in which the completion
// flag went high.
//
func Run(nl *netlist.Netlist, cfg RunConfig) (uint64, error) {
	if cfg.Done == "" {
		cfg.Done = "done"
	}
	if cfg.MaxCycles == 0 {
		cfg.MaxCycles = 1 << 20
	}

	memSpecs, err := validate(nl)
	if err != nil {
		return 0, err
	}
	sched, err := schedule(nl)
	if err != nil {
		return 0, err
	}

	var done netlist.Wire
	found := false
	for _, o := range nl.Outputs() {
		if o.Name == cfg.Done {
			done, found = o.Wire, true
			break
		}
	}
	if !found {
		return 0, errors.Errorf("netlist has no %q output to use as completion flag", cfg.Done)
	}

	comb := make([]uint64, len(nl.Instances()))
	reg := make([]uint64, len(nl.Instances()))
	regNext := make([]uint64, len(nl.Instances()))
	mems := make(map[netlist.ID]*memState)

	for _, n := range nl.Instances() {
		switch n.Kind() {
		case netlist.Delay, netlist.DelayEn:
			if reg[n.ID()], err = initValue(n); err != nil {
				return 0, err
			}
		case netlist.RAM, netlist.DualRAM:
			m := memSpecs[n.ID()]
			ms := &memState{
				spec:  m,
				cells: make([]uint64, m.depth()),
				q:     make([]uint64, len(m.ports)),
			}
			copy(ms.cells, m.init)
			mems[n.ID()] = ms
		}
	}

	val := func(w netlist.Wire) uint64 {
		p := nl.Inst(w.Inst)
		switch p.Kind() {
		case netlist.Delay, netlist.DelayEn:
			return reg[w.Inst]
		case netlist.RAM, netlist.DualRAM:
			ms := mems[w.Inst]
			return ms.q[w.Port/ms.spec.width] >> uint(w.Port%ms.spec.width) & 1
		}
		return comb[w.Inst]
	}
	pack := func(ws []netlist.Wire) uint64 {
		var v uint64
		for i, w := range ws {
			v |= val(w) << uint(i)
		}
		return v
	}

	for cycle := 0; cycle < cfg.MaxCycles; cycle++ {
		for _, n := range sched {
			comb[n.ID()] = evalComb(n, val, cfg.Inputs)
		}

		if val(done) != 0 {
			var v uint64
			i := 0
			for _, o := range nl.Outputs() {
				if o.Name == cfg.Done {
					continue
				}
				v |= val(o.Wire) << uint(i)
				i++
			}
			return v, nil
		}

		// next-value phase
		for _, n := range nl.Instances() {
			in := n.Ins()
			switch n.Kind() {
			case netlist.Delay:
				regNext[n.ID()] = val(in[1])
			case netlist.DelayEn:
				if val(in[1]) != 0 {
					regNext[n.ID()] = val(in[2])
				} else {
					regNext[n.ID()] = reg[n.ID()]
				}
			}
		}
		type memOp struct {
			ms   *memState
			port int
			we   uint64
			a, d uint64
		}
		var ops []memOp
		for _, n := range nl.Instances() {
			ms := mems[n.ID()]
			if ms == nil {
				continue
			}
			for p, port := range ms.spec.ports {
				ops = append(ops, memOp{
					ms:   ms,
					port: p,
					we:   val(port.we),
					a:    pack(port.addr),
					d:    pack(port.data),
				})
			}
		}

		// commit phase: reads observe pre-write contents, later ports win
		// write collisions
		for _, n := range nl.Instances() {
			if n.Kind() == netlist.Delay || n.Kind() == netlist.DelayEn {
				reg[n.ID()] = regNext[n.ID()]
			}
		}
		for i := range ops {
			op := &ops[i]
			op.ms.q[op.port] = op.ms.cells[op.a]
		}
		for i := range ops {
			op := &ops[i]
			if op.we != 0 {
				op.ms.cells[op.a] = op.d
			}
		}
	}
	return 0, errors.Errorf("%q still low after %d cycles", cfg.Done, cfg.MaxCycles)
}

// evalComb mirrors the statement semantics of the primitive registry over
// concrete values. The netlist is validated beforehand, so arity and kind
// are known good here.
//
func evalComb(n *netlist.Instance, val func(netlist.Wire) uint64, inputs map[string]uint64) uint64 {
	in := n.Ins()
	switch n.Kind() {
	case netlist.Low:
		return 0
	case netlist.High:
		return 1
	case netlist.Inv:
		return val(in[0]) ^ 1
	case netlist.And2:
		return val(in[0]) & val(in[1])
	case netlist.Or2:
		return val(in[0]) | val(in[1])
	case netlist.Xor2, netlist.Xorcy:
		return val(in[0]) ^ val(in[1])
	case netlist.Eq2:
		return val(in[0]) ^ val(in[1]) ^ 1
	case netlist.Muxcy:
		if val(in[2]) != 0 {
			return val(in[0])
		}
		return val(in[1])
	case netlist.Name:
		name, _ := n.Param("name")
		return inputs[name] & 1
	}
	return 0
}
