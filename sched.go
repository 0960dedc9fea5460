// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"github.com/db47h/netsim/netlist"
)

// schedule linearizes the combinational instances of nl so that every
// instance appears after the producers of all its inputs.
//
// Register outputs are treated as sources: their value for the cycle is the
// value latched at the end of the previous cycle, so a consumer→producer
// edge into a register creates no ordering requirement. Registers still
// appear as vertices so that the inputs feeding their next-value expression
// get ordered, but they are not part of the returned sequence.
//
// The walk visits instances in ascending id order and inputs in declaration
// order, which makes the schedule deterministic for a given netlist.
//
func schedule(nl *netlist.Netlist) ([]*netlist.Instance, error) {
	const (
		white = iota // unvisited
		grey         // on the current walk path
		black        // done
	)
	marks := make([]uint8, len(nl.Instances()))
	order := make([]*netlist.Instance, 0, len(nl.Instances()))

	var visit func(n *netlist.Instance) error
	visit = func(n *netlist.Instance) error {
		switch marks[n.ID()] {
		case grey:
			return newError(CyclicNetlist, n.ID(), "combinational cycle through %s", n.Kind())
		case black:
			return nil
		}
		marks[n.ID()] = grey
		for _, w := range n.Ins() {
			p := nl.Inst(w.Inst)
			if p.Kind().Register() {
				// cycle legally broken here
				continue
			}
			if err := visit(p); err != nil {
				return err
			}
		}
		marks[n.ID()] = black
		if !n.Kind().Register() {
			order = append(order, n)
		}
		return nil
	}

	for _, n := range nl.Instances() {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// liveSet returns the instances reachable backwards from the named outputs.
// Instances outside this set drive nothing observable and are skipped at
// emission time so that the generated source declares no unused bindings.
//
func liveSet(nl *netlist.Netlist) []bool {
	live := make([]bool, len(nl.Instances()))
	var mark func(id netlist.ID)
	mark = func(id netlist.ID) {
		if live[id] {
			return
		}
		live[id] = true
		n := nl.Inst(id)
		ins := n.Ins()
		if k := n.Kind(); (k == netlist.Delay || k == netlist.DelayEn) && len(ins) > 0 {
			// input 0 is the register's own current output and is never
			// read by its next-value expression
			ins = ins[1:]
		}
		for _, w := range ins {
			mark(w.Inst)
		}
	}
	for _, o := range nl.Outputs() {
		mark(o.Wire.Inst)
	}
	return live
}
