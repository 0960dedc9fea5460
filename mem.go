// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/db47h/netsim/netlist"
)

// A memPort is one read/write port of a memory: a write-enable wire plus the
// data and address buses split out of the instance's flat input list.
//
type memPort struct {
	we   netlist.Wire
	data []netlist.Wire
	addr []netlist.Wire
}

// A memSpec is the decoded shape of a ram/dualRam instance.
//
type memSpec struct {
	inst  *netlist.Instance
	width int // data width
	abits int // address width
	init  []uint64
	ports []memPort
}

// memSpecOf decodes the parameters and input buses of a memory instance.
// Bus-to-signal correspondence is positional: each port is write-enable
// first (all write-enables up front), then data bus low bits first, then
// address bus.
//
func memSpecOf(n *netlist.Instance) (*memSpec, error) {
	m := &memSpec{inst: n}
	var err error
	if m.width, err = intParam(n, "width"); err != nil {
		return nil, err
	}
	if m.abits, err = intParam(n, "abits"); err != nil {
		return nil, err
	}
	if m.abits > 24 {
		return nil, newError(MalformedInstance, n.ID(), "address width %d too large", m.abits)
	}

	nports := 1
	if n.Kind() == netlist.DualRAM {
		nports = 2
	}
	if err := wantWidth(n, nports*m.width); err != nil {
		return nil, err
	}
	if err := wantIns(n, nports*(1+m.width+m.abits)); err != nil {
		return nil, err
	}
	in := n.Ins()
	for p := 0; p < nports; p++ {
		port := memPort{we: in[p]}
		sig := in[nports+p*(m.width+m.abits):]
		port.data = sig[:m.width]
		port.addr = sig[m.width : m.width+m.abits]
		m.ports = append(m.ports, port)
	}

	if v, ok := n.Param("init"); ok {
		if m.init, err = netlist.ParseInts(v); err != nil {
			return nil, newError(MalformedInstance, n.ID(), "init: %s", err)
		}
		if len(m.init) > m.depth() {
			return nil, newError(MalformedInstance, n.ID(), "%d init values for depth %d",
				len(m.init), m.depth())
		}
		for _, v := range m.init {
			if m.width < 64 && v >= 1<<uint(m.width) {
				return nil, newError(MalformedInstance, n.ID(), "init value %d exceeds data width %d",
					v, m.width)
			}
		}
	}
	return m, nil
}

func intParam(n *netlist.Instance, key string) (int, error) {
	s, ok := n.Param(key)
	if !ok {
		return 0, newError(MissingParameter, n.ID(), "%s requires a %s parameter", n.Kind(), key)
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, newError(MalformedInstance, n.ID(), "bad %s value %q", key, s)
	}
	return v, nil
}

func (m *memSpec) depth() int { return 1 << uint(m.abits) }

// name returns the identifier of the memory's backing store in generated
// code and the stem of its artifact file names.
func (m *memSpec) name() string { return fmt.Sprintf("m%d", m.inst.ID()) }

func (m *memSpec) mifName() string { return m.name() + ".mif" }

// mif renders the memory-initialization file: width/depth header,
// hexadecimal address and data radix, then one line per location, padding
// addresses beyond the declared init list with zero. The output derives
// solely from the instance's width/abits/init parameters and is therefore
// deterministic.
//
func (m *memSpec) mif() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "WIDTH=%d;\n", m.width)
	fmt.Fprintf(&b, "DEPTH=%d;\n\n", m.depth())
	b.WriteString("ADDRESS_RADIX=HEX;\n")
	b.WriteString("DATA_RADIX=HEX;\n\n")
	b.WriteString("CONTENT BEGIN\n")
	for a := 0; a < m.depth(); a++ {
		var v uint64
		if a < len(m.init) {
			v = m.init[a]
		}
		fmt.Fprintf(&b, "%X : %X;\n", a, v)
	}
	b.WriteString("END;\n")
	return []byte(b.String())
}

// sigName returns the synthesis net name of a wire.
func sigName(w netlist.Wire) string {
	return fmt.Sprintf("n%d_%d", w.Inst, w.Port)
}

// bus renders a Verilog concatenation of the given wires, which list bus
// bits low bit first; the concatenation is msb-first.
func bus(ws []netlist.Wire) string {
	var b strings.Builder
	b.WriteByte('{')
	for i := len(ws) - 1; i >= 0; i-- {
		b.WriteString(sigName(ws[i]))
		if i > 0 {
			b.WriteString(", ")
		}
	}
	b.WriteByte('}')
	return b.String()
}

// macro renders a fully parameterized altsyncram-style macro instantiation
// for the memory: operation mode, registered read port, old-data
// read-during-write policy, bus widths and, when initial contents were
// declared, a reference to the mif file.
//
func (m *memSpec) macro() []byte {
	dual := m.inst.Kind() == netlist.DualRAM

	var b strings.Builder
	fmt.Fprintf(&b, "altsyncram #(\n")
	if dual {
		fmt.Fprintf(&b, "\t.operation_mode(\"BIDIR_DUAL_PORT\"),\n")
	} else {
		fmt.Fprintf(&b, "\t.operation_mode(\"SINGLE_PORT\"),\n")
	}
	fmt.Fprintf(&b, "\t.width_a(%d),\n", m.width)
	fmt.Fprintf(&b, "\t.widthad_a(%d),\n", m.abits)
	fmt.Fprintf(&b, "\t.numwords_a(%d),\n", m.depth())
	fmt.Fprintf(&b, "\t.outdata_reg_a(\"CLOCK0\"),\n")
	fmt.Fprintf(&b, "\t.read_during_write_mode_port_a(\"OLD_DATA\"),\n")
	if dual {
		fmt.Fprintf(&b, "\t.width_b(%d),\n", m.width)
		fmt.Fprintf(&b, "\t.widthad_b(%d),\n", m.abits)
		fmt.Fprintf(&b, "\t.numwords_b(%d),\n", m.depth())
		fmt.Fprintf(&b, "\t.outdata_reg_b(\"CLOCK0\"),\n")
		fmt.Fprintf(&b, "\t.read_during_write_mode_port_b(\"OLD_DATA\"),\n")
	}
	if len(m.init) > 0 {
		fmt.Fprintf(&b, "\t.init_file(%q),\n", m.mifName())
	}
	fmt.Fprintf(&b, "\t.lpm_type(\"altsyncram\")\n")
	fmt.Fprintf(&b, ") %s (\n", m.name())
	fmt.Fprintf(&b, "\t.clock0(clk),\n")

	a := m.ports[0]
	fmt.Fprintf(&b, "\t.wren_a(%s),\n", sigName(a.we))
	fmt.Fprintf(&b, "\t.address_a(%s),\n", bus(a.addr))
	fmt.Fprintf(&b, "\t.data_a(%s),\n", bus(a.data))
	fmt.Fprintf(&b, "\t.q_a(%s)", bus(m.q(0)))
	if dual {
		pb := m.ports[1]
		fmt.Fprintf(&b, ",\n")
		fmt.Fprintf(&b, "\t.wren_b(%s),\n", sigName(pb.we))
		fmt.Fprintf(&b, "\t.address_b(%s),\n", bus(pb.addr))
		fmt.Fprintf(&b, "\t.data_b(%s),\n", bus(pb.data))
		fmt.Fprintf(&b, "\t.q_b(%s)", bus(m.q(1)))
	}
	fmt.Fprintf(&b, "\n);\n")
	return []byte(b.String())
}

// q returns the output wires of the given read port, low bit first.
func (m *memSpec) q(port int) []netlist.Wire {
	ws := make([]netlist.Wire, m.width)
	for i := range ws {
		ws[i] = netlist.Wire{Inst: m.inst.ID(), Port: port*m.width + i}
	}
	return ws
}
