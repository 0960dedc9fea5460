// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/imports"

	"github.com/db47h/netsim/netlist"
)

// emitter assembles the generated simulation source: register and memory
// declarations, the scheduled combinational block, the exit test, the
// register next-value block and the register commit block, in that order,
// inside an unbounded loop.
//
type emitter struct {
	nl    *netlist.Netlist
	cfg   *Config
	mems  map[netlist.ID]*memSpec
	reads map[netlist.ID][]bool
	live  []bool
	b     strings.Builder
}

func emitSim(nl *netlist.Netlist, sched []*netlist.Instance, mems map[netlist.ID]*memSpec, cfg *Config) ([]byte, error) {
	e := &emitter{nl: nl, cfg: cfg, mems: mems, live: liveSet(nl)}
	e.reads = e.memReads()
	if err := e.run(sched); err != nil {
		return nil, err
	}
	src := []byte(e.b.String())
	if cfg.NoFormat {
		return src, nil
	}
	out, err := imports.Process(nl.Name()+".go", src, nil)
	if err != nil {
		return nil, errors.Wrap(err, "format generated source")
	}
	return out, nil
}

// rv resolves a wire to the expression carrying its value in the generated
// source. Results are either identifiers or parenthesized, so they can be
// embedded in any expression context.
//
func (e *emitter) rv(w netlist.Wire) string {
	p := e.nl.Inst(w.Inst)
	switch p.Kind() {
	case netlist.Delay, netlist.DelayEn:
		return fmt.Sprintf("r%d", w.Inst)
	case netlist.RAM, netlist.DualRAM:
		m := e.mems[w.Inst]
		q := m.name() + "q" + portSuffix(p.Kind(), w.Port/m.width)
		if shift := w.Port % m.width; shift > 0 {
			return fmt.Sprintf("(%s>>%d&1)", q, shift)
		}
		return fmt.Sprintf("(%s&1)", q)
	}
	return fmt.Sprintf("v%d_%d", w.Inst, w.Port)
}

func portSuffix(k netlist.Kind, port int) string {
	if k != netlist.DualRAM {
		return ""
	}
	return string(rune('a' + port))
}

// pack renders the scalar value of a bus given low bit first.
func (e *emitter) pack(ws []netlist.Wire) string {
	var b strings.Builder
	for i, w := range ws {
		if i > 0 {
			fmt.Fprintf(&b, " | %s<<%d", e.rv(w), i)
		} else {
			b.WriteString(e.rv(w))
		}
	}
	return b.String()
}

func (e *emitter) printf(format string, args ...interface{}) {
	fmt.Fprintf(&e.b, format, args...)
}

// memReads reports, per memory, which read ports are consumed somewhere in
// the live netlist. Unread ports get no read register in the generated
// source, which would otherwise declare a binding the output language
// rejects as unused.
//
func (e *emitter) memReads() map[netlist.ID][]bool {
	reads := make(map[netlist.ID][]bool)
	note := func(w netlist.Wire) {
		m := e.mems[w.Inst]
		if m == nil {
			return
		}
		r := reads[w.Inst]
		if r == nil {
			r = make([]bool, len(m.ports))
			reads[w.Inst] = r
		}
		r[w.Port/m.width] = true
	}
	for _, n := range e.nl.Instances() {
		if !e.live[n.ID()] {
			continue
		}
		ins := n.Ins()
		if k := n.Kind(); (k == netlist.Delay || k == netlist.DelayEn) && len(ins) > 0 {
			ins = ins[1:] // input 0 is never read
		}
		for _, w := range ins {
			note(w)
		}
	}
	for _, o := range e.nl.Outputs() {
		note(o.Wire)
	}
	return reads
}

func (e *emitter) run(sched []*netlist.Instance) error {
	nl, cfg := e.nl, e.cfg
	if err := checkIdent(-1, nl.Name()); err != nil {
		return errors.Wrap(err, "circuit name")
	}

	// generated procedure inputs: one uint64 parameter per distinct
	// external input name, sorted.
	seen := make(map[string]bool)
	var inputs []string
	for _, n := range nl.Instances() {
		if n.Kind() != netlist.Name {
			continue
		}
		name, err := inputName(n)
		if err != nil {
			return err
		}
		if !seen[name] {
			seen[name] = true
			inputs = append(inputs, name)
		}
	}
	sort.Strings(inputs)

	var regs []*netlist.Instance
	var mems []*memSpec
	for _, n := range nl.Instances() {
		if !e.live[n.ID()] {
			continue
		}
		switch n.Kind() {
		case netlist.Delay, netlist.DelayEn:
			regs = append(regs, n)
		case netlist.RAM, netlist.DualRAM:
			mems = append(mems, e.mems[n.ID()])
		}
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
		return errors.Errorf("netlist has no %q output to use as completion flag", cfg.Done)
	}

	e.printf("// Code generated by netsim. DO NOT EDIT.\n\n")
	e.printf("package %s\n\n", cfg.Package)
	e.printf("// %s simulates one run of the %q circuit. It loops over clock cycles\n", nl.Name(), nl.Name())
	e.printf("// until the %q output goes high, then returns the remaining named\n", cfg.Done)
	e.printf("// outputs packed into one integer, first output in the lowest bit.\n")
	e.printf("func %s(", nl.Name())
	if len(inputs) > 0 {
		e.printf("%s uint64", strings.Join(inputs, ", "))
	}
	e.printf(") uint64 {\n")

	// register and memory cells, initialized to their declared contents
	for _, n := range regs {
		init, err := initValue(n)
		if err != nil {
			return err
		}
		e.printf("\tr%d := uint64(%d)\n", n.ID(), init)
	}
	for _, m := range mems {
		e.printf("\t%s := [%d]uint64{", m.name(), m.depth())
		for i, v := range m.init {
			if i > 0 {
				e.printf(", ")
			}
			e.printf("%d", v)
		}
		e.printf("}\n")
		for p := range m.ports {
			if e.reads[m.inst.ID()][p] {
				e.printf("\t%sq%s := uint64(0)\n", m.name(), portSuffix(m.inst.Kind(), p))
			}
		}
	}

	e.printf("\tfor {\n")

	// combinational block, in dependency order
	for _, n := range sched {
		if !e.live[n.ID()] {
			continue
		}
		expr, err := combExpr(n, e.rv)
		if err != nil {
			return err
		}
		e.printf("\t\tv%d_0 := %s\n", n.ID(), expr)
	}

	// exit test: return without updating registers
	e.printf("\t\tif %s != 0 {\n", e.rv(done))
	e.printf("\t\t\treturn %s\n", e.result())
	e.printf("\t\t}\n")

	// next-value phase: no register may observe another register's value
	// already advanced to the next cycle, so next values go to distinct
	// cells first.
	for _, n := range regs {
		next, err := nextExpr(n, e.rv, fmt.Sprintf("r%d", n.ID()))
		if err != nil {
			return err
		}
		e.printf("\t\tr%dn := %s\n", n.ID(), next)
	}
	for _, m := range mems {
		for p, port := range m.ports {
			sfx := portSuffix(m.inst.Kind(), p)
			e.printf("\t\t%swe%s := %s\n", m.name(), sfx, e.rv(port.we))
			e.printf("\t\t%sa%s := %s\n", m.name(), sfx, e.pack(port.addr))
			e.printf("\t\t%sd%s := %s\n", m.name(), sfx, e.pack(port.data))
			if e.reads[m.inst.ID()][p] {
				e.printf("\t\t%sq%sn := %s[%sa%s]\n", m.name(), sfx, m.name(), m.name(), sfx)
			}
		}
	}

	// commit phase: only the bindings of the next-value block appear here,
	// so no cell observes another cell already advanced to the next cycle
	for _, n := range regs {
		e.printf("\t\tr%d = r%dn\n", n.ID(), n.ID())
	}
	for _, m := range mems {
		for p := range m.ports {
			sfx := portSuffix(m.inst.Kind(), p)
			e.printf("\t\tif %swe%s != 0 {\n", m.name(), sfx)
			e.printf("\t\t\t%s[%sa%s] = %sd%s\n", m.name(), m.name(), sfx, m.name(), sfx)
			e.printf("\t\t}\n")
			if e.reads[m.inst.ID()][p] {
				e.printf("\t\t%sq%s = %sq%sn\n", m.name(), sfx, m.name(), sfx)
			}
		}
	}

	e.printf("\t}\n}\n")
	return nil
}

// result renders the encoded scalar result: every named output except the
// completion flag, first output carrying weight 1.
//
func (e *emitter) result() string {
	var b strings.Builder
	i := 0
	for _, o := range e.nl.Outputs() {
		if o.Name == e.cfg.Done {
			continue
		}
		if i > 0 {
			fmt.Fprintf(&b, " | %s<<%d", e.rv(o.Wire), i)
		} else {
			b.WriteString(e.rv(o.Wire))
		}
		i++
	}
	if i == 0 {
		return "0"
	}
	return b.String()
}
