// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist_test

import (
	"testing"

	"github.com/db47h/netsim/netlist"
)

func TestKind_parse(t *testing.T) {
	for _, name := range []string{
		"low", "high", "inv", "and2", "or2", "xor2", "eq2",
		"xorcy", "muxcy", "name", "delay", "delayEn", "ram", "dualRam",
	} {
		k, ok := netlist.ParseKind(name)
		if !ok {
			t.Errorf("ParseKind(%q) failed", name)
			continue
		}
		if k.String() != name {
			t.Errorf("Kind %q round-trips as %q", name, k)
		}
	}
	if _, ok := netlist.ParseKind("nand3"); ok {
		t.Error("ParseKind accepted an unknown primitive")
	}
	if _, ok := netlist.ParseKind("unknown"); ok {
		t.Error("ParseKind accepted the unknown sentinel")
	}
}

func TestKind_registerClass(t *testing.T) {
	regs := map[netlist.Kind]bool{
		netlist.Delay: true, netlist.DelayEn: true,
		netlist.RAM: true, netlist.DualRAM: true,
	}
	for k := netlist.Low; k <= netlist.DualRAM; k++ {
		if got := k.Register(); got != regs[k] {
			t.Errorf("%s.Register() = %v", k, got)
		}
	}
}

func TestBuilder(t *testing.T) {
	b := netlist.New("c")
	h := b.Add(netlist.High, 1, nil)
	n := b.Add(netlist.Inv, 1, []netlist.Wire{h})
	b.Bind("out", n)
	nl, err := b.Netlist()
	if err != nil {
		t.Fatal(err)
	}
	if nl.Name() != "c" {
		t.Errorf("Name() = %q", nl.Name())
	}
	if len(nl.Instances()) != 2 {
		t.Fatalf("%d instances", len(nl.Instances()))
	}
	inv := nl.Inst(n.Inst)
	if inv.Kind() != netlist.Inv || len(inv.Ins()) != 1 || inv.Ins()[0] != h {
		t.Error("inverter instance malformed")
	}
	outs := nl.Outputs()
	if len(outs) != 1 || outs[0].Name != "out" || outs[0].Wire != n {
		t.Error("output table malformed")
	}
	if nl.Inst(42) != nil {
		t.Error("Inst(42) should be nil")
	}
}

func TestBuilder_checksWires(t *testing.T) {
	b := netlist.New("c")
	h := b.Add(netlist.High, 1, nil)
	b.Add(netlist.Inv, 1, []netlist.Wire{{Inst: 7}})
	b.Bind("out", h)
	if _, err := b.Netlist(); err == nil {
		t.Error("dangling input wire not detected")
	}

	b = netlist.New("c")
	h = b.Add(netlist.High, 1, nil)
	b.Bind("out", netlist.Wire{Inst: h.Inst, Port: 1})
	if _, err := b.Netlist(); err == nil {
		t.Error("output port beyond arity not detected")
	}
}

func TestInstance_params(t *testing.T) {
	b := netlist.New("c")
	w := b.Add(netlist.RAM, 2, nil,
		netlist.Param{Key: "width", Value: "2"},
		netlist.Param{Key: "init", Value: "1, 2,3"})
	nl, _ := b.Netlist()
	n := nl.Inst(w.Inst)

	if v, ok := n.Param("width"); !ok || v != "2" {
		t.Errorf("Param(width) = %q, %v", v, ok)
	}
	if _, ok := n.Param("abits"); ok {
		t.Error("Param(abits) should be absent")
	}
	vs, err := netlist.ParseInts("1, 2,3")
	if err != nil || len(vs) != 3 || vs[0] != 1 || vs[2] != 3 {
		t.Errorf("ParseInts = %v, %v", vs, err)
	}
	if _, err := netlist.ParseInts("1,x"); err == nil {
		t.Error("ParseInts accepted garbage")
	}
	if vs, err := netlist.ParseInts("  "); err != nil || vs != nil {
		t.Errorf("ParseInts(blank) = %v, %v", vs, err)
	}
}

func TestWire_equality(t *testing.T) {
	a := netlist.Wire{Inst: 1, Port: 0}
	b := netlist.Wire{Inst: 1, Port: 0}
	c := netlist.Wire{Inst: 1, Port: 1}
	if a != b || a == c {
		t.Error("wire equality is by both fields")
	}
	if a.String() != "1.0" {
		t.Errorf("String() = %q", a.String())
	}
}
