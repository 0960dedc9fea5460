// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"fmt"

	"github.com/db47h/netsim/netlist"
)

// A resolver returns the generated-code expression carrying the value of a
// wire: the combinational binding, register cell or memory read port that
// produces it.
//
type resolver func(w netlist.Wire) string

// wantIns checks the input arity of n. Never guess a default wiring: a
// mismatch is fatal.
//
func wantIns(n *netlist.Instance, want int) error {
	if len(n.Ins()) != want {
		return newError(MalformedInstance, n.ID(), "%s requires %d inputs, got %d",
			n.Kind(), want, len(n.Ins()))
	}
	return nil
}

func wantWidth(n *netlist.Instance, want int) error {
	if n.Width() != want {
		return newError(MalformedInstance, n.ID(), "%s requires output arity %d, got %d",
			n.Kind(), want, n.Width())
	}
	return nil
}

// combExpr returns the expression bound to the output of a combinational
// instance. The switch is exhaustive over the closed primitive set; register
// kinds never reach it.
//
func combExpr(n *netlist.Instance, rv resolver) (string, error) {
	if err := wantWidth(n, 1); err != nil {
		return "", err
	}
	in := n.Ins()
	switch n.Kind() {
	case netlist.Low:
		if err := wantIns(n, 0); err != nil {
			return "", err
		}
		return "uint64(0)", nil
	case netlist.High:
		if err := wantIns(n, 0); err != nil {
			return "", err
		}
		return "uint64(1)", nil
	case netlist.Inv:
		if err := wantIns(n, 1); err != nil {
			return "", err
		}
		return rv(in[0]) + " ^ 1", nil
	case netlist.And2:
		if err := wantIns(n, 2); err != nil {
			return "", err
		}
		return rv(in[0]) + " & " + rv(in[1]), nil
	case netlist.Or2:
		if err := wantIns(n, 2); err != nil {
			return "", err
		}
		return rv(in[0]) + " | " + rv(in[1]), nil
	case netlist.Xor2, netlist.Xorcy:
		// no carry chain distinction in simulation
		if err := wantIns(n, 2); err != nil {
			return "", err
		}
		return rv(in[0]) + " ^ " + rv(in[1]), nil
	case netlist.Eq2:
		if err := wantIns(n, 2); err != nil {
			return "", err
		}
		return rv(in[0]) + " ^ " + rv(in[1]) + " ^ 1", nil
	case netlist.Muxcy:
		// inputs: carry-in, data-in, select; select picks carry-in
		if err := wantIns(n, 3); err != nil {
			return "", err
		}
		ci, di, sel := rv(in[0]), rv(in[1]), rv(in[2])
		return fmt.Sprintf("%s ^ %s&(%s^%s)", di, sel, ci, di), nil
	case netlist.Name:
		if err := wantIns(n, 0); err != nil {
			return "", err
		}
		name, err := inputName(n)
		if err != nil {
			return "", err
		}
		// parameters are full uint64 words, only bit 0 is the signal
		return name + " & 1", nil
	}
	return "", newError(UnknownPrimitive, n.ID(), "%s", n.Kind())
}

// nextExpr returns the next-value expression of a delay register. cur is the
// expression of the register's current cell.
//
func nextExpr(n *netlist.Instance, rv resolver, cur string) (string, error) {
	if err := wantWidth(n, 1); err != nil {
		return "", err
	}
	in := n.Ins()
	switch n.Kind() {
	case netlist.Delay:
		// inputs: current (unused), data
		if err := wantIns(n, 2); err != nil {
			return "", err
		}
		return rv(in[1]), nil
	case netlist.DelayEn:
		// inputs: current (unused), enable, data; hold unless enable
		if err := wantIns(n, 3); err != nil {
			return "", err
		}
		en, d := rv(in[1]), rv(in[2])
		return fmt.Sprintf("%s ^ %s&(%s^%s)", cur, en, cur, d), nil
	}
	return "", newError(UnknownPrimitive, n.ID(), "%s is not a delay register", n.Kind())
}

// initValue returns the declared initial value of a delay register.
//
func initValue(n *netlist.Instance) (uint64, error) {
	v, ok := n.Param("init")
	if !ok {
		return 0, newError(MissingParameter, n.ID(), "%s requires an init parameter", n.Kind())
	}
	vs, err := netlist.ParseInts(v)
	if err != nil || len(vs) != 1 || vs[0] > 1 {
		return 0, newError(MalformedInstance, n.ID(), "bad init value %q", v)
	}
	return vs[0], nil
}

// inputName returns the external input name of a Name instance.
//
func inputName(n *netlist.Instance) (string, error) {
	name, ok := n.Param("name")
	if !ok {
		return "", newError(MissingParameter, n.ID(), "name requires a name parameter")
	}
	if err := checkIdent(n.ID(), name); err != nil {
		return "", err
	}
	return name, nil
}
