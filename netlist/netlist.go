// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlist defines the flattened instance/wire graph consumed by the
// netsim compiler: primitive instances, the wires connecting them and the
// table of named outputs.
//
// A netlist is built once through a Builder and is immutable afterwards.
// Instance ids are dense, assigned in Add order starting at 0.
//
package netlist

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ID identifies an instance within a netlist.
//
type ID int

// Kind is the primitive kind of an instance. The set of kinds is closed:
// the simulation semantics of every primitive are hand verified and the
// compiler matches exhaustively over this enum.
//
type Kind uint8

// Primitive kinds.
const (
	Unknown Kind = iota
	Low          // constant 0
	High         // constant 1
	Inv          // bitwise complement
	And2
	Or2
	Xor2
	Eq2
	Xorcy // carry-chain xor, same simulation semantics as Xor2
	Muxcy // carry mux: out = sel ? carry-in : data-in
	Name  // externally supplied named input
	Delay
	DelayEn
	RAM
	DualRAM
)

var kindNames = [...]string{
	Unknown: "unknown",
	Low:     "low",
	High:    "high",
	Inv:     "inv",
	And2:    "and2",
	Or2:     "or2",
	Xor2:    "xor2",
	Eq2:     "eq2",
	Xorcy:   "xorcy",
	Muxcy:   "muxcy",
	Name:    "name",
	Delay:   "delay",
	DelayEn: "delayEn",
	RAM:     "ram",
	DualRAM: "dualRam",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the Kind named by s. ok is false if s does not name a
// primitive.
//
func ParseKind(s string) (k Kind, ok bool) {
	for i, n := range kindNames {
		if i != int(Unknown) && n == s {
			return Kind(i), true
		}
	}
	return Unknown, false
}

// Register reports whether k belongs to the register class: primitives whose
// current output is the value latched at the end of the previous cycle and is
// therefore available independent of the current cycle's combinational
// evaluation. These are the only legal way to break a dependency cycle.
//
func (k Kind) Register() bool {
	switch k {
	case Delay, DelayEn, RAM, DualRAM:
		return true
	}
	return false
}

// Memory reports whether k is a memory primitive.
//
func (k Kind) Memory() bool { return k == RAM || k == DualRAM }

// A Wire references a single-bit value: output port Port of instance Inst.
// Wires are plain values; two wires are equal iff both fields match.
//
type Wire struct {
	Inst ID
	Port int
}

func (w Wire) String() string {
	return strconv.Itoa(int(w.Inst)) + "." + strconv.Itoa(w.Port)
}

// A Param is a key/value instance parameter. The value is an untyped string
// interpreted per primitive.
//
type Param struct {
	Key   string
	Value string
}

// An Instance is one occurrence of a primitive with its parameters and input
// wires. Instances are created by Builder.Add and never mutated.
//
type Instance struct {
	id     ID
	kind   Kind
	params []Param
	ins    []Wire
	width  int // output arity
}

// ID returns the instance id.
func (n *Instance) ID() ID { return n.id }

// Kind returns the primitive kind.
func (n *Instance) Kind() Kind { return n.kind }

// Width returns the output arity.
func (n *Instance) Width() int { return n.width }

// Ins returns the ordered input wires. The returned slice is shared and must
// not be modified.
func (n *Instance) Ins() []Wire { return n.ins }

// Params returns the ordered parameter list. The returned slice is shared and
// must not be modified.
func (n *Instance) Params() []Param { return n.params }

// Param returns the value of the parameter named key.
//
func (n *Instance) Param(key string) (v string, ok bool) {
	for _, p := range n.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ParseInts parses a comma-separated list of unsigned integers, as used by
// memory init parameters.
//
func ParseInts(s string) ([]uint64, error) {
	if s = strings.TrimSpace(s); s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	vs := make([]uint64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 0, 64)
		if err != nil {
			return nil, errors.Errorf("bad integer list item %q", f)
		}
		vs[i] = v
	}
	return vs, nil
}

// An Output is a named output: a circuit-level name bound to a wire.
//
type Output struct {
	Name string
	Wire Wire
}

// A Netlist is the immutable instance/wire graph of one circuit together
// with its ordered named-output table.
//
type Netlist struct {
	name  string
	insts []*Instance
	outs  []Output
}

// Name returns the circuit name.
func (nl *Netlist) Name() string { return nl.name }

// Instances returns all instances in id order. The returned slice is shared
// and must not be modified.
func (nl *Netlist) Instances() []*Instance { return nl.insts }

// Inst returns the instance with the given id, or nil.
//
func (nl *Netlist) Inst(id ID) *Instance {
	if id < 0 || int(id) >= len(nl.insts) {
		return nil
	}
	return nl.insts[id]
}

// Outputs returns the named-output table in declaration order. The returned
// slice is shared and must not be modified.
func (nl *Netlist) Outputs() []Output { return nl.outs }

// A Builder accumulates instances and named outputs, then seals them into a
// Netlist. Input wires may reference instances added later, so that register
// feedback loops can be described naturally; all references are checked when
// Netlist is called.
//
type Builder struct {
	nl Netlist
}

// New returns a Builder for a circuit with the given name.
//
func New(name string) *Builder {
	return &Builder{nl: Netlist{name: name}}
}

// Add appends an instance and returns the wire of its output port 0.
// Other ports of a multi-bit instance are addressed as
// Wire{Inst: w.Inst, Port: p}.
//
func (b *Builder) Add(k Kind, width int, ins []Wire, params ...Param) Wire {
	id := ID(len(b.nl.insts))
	b.nl.insts = append(b.nl.insts, &Instance{
		id:     id,
		kind:   k,
		params: params,
		ins:    ins,
		width:  width,
	})
	return Wire{Inst: id}
}

// Bind appends a named output bound to w. Output order is the order of Bind
// calls and is significant: it fixes the bit position of each output in the
// encoded simulation result.
//
func (b *Builder) Bind(name string, w Wire) {
	b.nl.outs = append(b.nl.outs, Output{Name: name, Wire: w})
}

// Netlist checks all wire references and returns the sealed netlist. The
// builder must not be used afterwards.
//
func (b *Builder) Netlist() (*Netlist, error) {
	nl := &b.nl
	for _, n := range nl.insts {
		for i, w := range n.ins {
			if err := nl.checkWire(w); err != nil {
				return nil, errors.Wrapf(err, "instance %d (%s) input %d", n.id, n.kind, i)
			}
		}
	}
	for _, o := range nl.outs {
		if err := nl.checkWire(o.Wire); err != nil {
			return nil, errors.Wrapf(err, "output %q", o.Name)
		}
	}
	return nl, nil
}

func (nl *Netlist) checkWire(w Wire) error {
	p := nl.Inst(w.Inst)
	if p == nil {
		return errors.Errorf("wire %v references unknown instance", w)
	}
	if w.Port < 0 || w.Port >= p.width {
		return errors.Errorf("wire %v: port out of range (width %d)", w, p.width)
	}
	return nil
}
