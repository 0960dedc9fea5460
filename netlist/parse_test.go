// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist_test

import (
	"strings"
	"testing"

	"github.com/db47h/netsim/netlist"
)

const sample = `
# toggling register with start gate
circuit blinker
0 name name=start
1 delay in 1.0,2.0 init=0
2 inv in 1
3 and2 in 1.0,0.0
4 ram in 3,3,3,3 w 2 width=2 abits=1 init=1,2
out q 2.0
out done 3
`

func TestParse(t *testing.T) {
	nl, err := netlist.Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if nl.Name() != "blinker" {
		t.Errorf("Name() = %q", nl.Name())
	}
	if len(nl.Instances()) != 5 {
		t.Fatalf("%d instances", len(nl.Instances()))
	}

	d := nl.Inst(1)
	if d.Kind() != netlist.Delay {
		t.Errorf("instance 1 kind %s", d.Kind())
	}
	if v, ok := d.Param("init"); !ok || v != "0" {
		t.Errorf("instance 1 init = %q, %v", v, ok)
	}
	if ins := d.Ins(); len(ins) != 2 || ins[1] != (netlist.Wire{Inst: 2}) {
		t.Errorf("instance 1 inputs %v", ins)
	}

	// bare instance id parses as port 0
	if ins := nl.Inst(2).Ins(); ins[0] != (netlist.Wire{Inst: 1}) {
		t.Errorf("instance 2 inputs %v", ins)
	}
	if w := nl.Inst(4).Width(); w != 2 {
		t.Errorf("instance 4 arity %d", w)
	}

	outs := nl.Outputs()
	if len(outs) != 2 || outs[0].Name != "q" || outs[1].Wire != (netlist.Wire{Inst: 3}) {
		t.Errorf("outputs %v", outs)
	}
}

func TestParse_errors(t *testing.T) {
	td := []struct {
		name, in, want string
	}{
		{"no circuit", "0 high\n", "before circuit"},
		{"unknown primitive", "circuit c\n0 nand3\n", "unknown primitive"},
		{"id out of order", "circuit c\n1 high\n", "out of order"},
		{"bad wire", "circuit c\n0 inv in x.0\n", "bad wire"},
		{"bad arity", "circuit c\n0 high w zero\n", "bad output arity"},
		{"bad param", "circuit c\n0 high foo\n", "key=value"},
		{"dangling output", "circuit c\nout q 3.0\n", "unknown instance"},
		{"empty", "\n", "empty netlist"},
	}
	for _, tc := range td {
		t.Run(tc.name, func(t *testing.T) {
			_, err := netlist.Parse(strings.NewReader(tc.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
