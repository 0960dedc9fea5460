// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/db47h/netsim/netlist"
)

// memInstance builds a memory instance of the given shape, all signals tied
// to a single low constant, and returns it decoded.
func memInstance(kind netlist.Kind, width, abits, ins int, params ...netlist.Param) (*memSpec, error) {
	b := netlist.New("mem")
	l := b.Add(netlist.Low, 1, nil)
	ws := make([]netlist.Wire, ins)
	for i := range ws {
		ws[i] = l
	}
	arity := width
	if kind == netlist.DualRAM {
		arity = 2 * width
	}
	b.Add(kind, arity, ws, params...)
	nl, err := b.Netlist()
	if err != nil {
		return nil, err
	}
	return memSpecOf(nl.Instances()[1])
}

func ramParams(width, abits int, init string) []netlist.Param {
	ps := []netlist.Param{
		{Key: "width", Value: strconv.Itoa(width)},
		{Key: "abits", Value: strconv.Itoa(abits)},
	}
	if init != "" {
		ps = append(ps, netlist.Param{Key: "init", Value: init})
	}
	return ps
}

var _ = Describe("memory initialization content", func() {
	It("emits width, depth, hex radix and one line per location", func() {
		m, err := memInstance(netlist.RAM, 8, 2, 11, ramParams(8, 2, "3,5")...)
		Expect(err).ToNot(HaveOccurred())

		Expect(string(m.mif())).To(Equal(
			"WIDTH=8;\nDEPTH=4;\n\nADDRESS_RADIX=HEX;\nDATA_RADIX=HEX;\n\n" +
				"CONTENT BEGIN\n0 : 3;\n1 : 5;\n2 : 0;\n3 : 0;\nEND;\n"))
	})

	It("is deterministic", func() {
		m, err := memInstance(netlist.RAM, 4, 3, 8, ramParams(4, 3, "1,2,3")...)
		Expect(err).ToNot(HaveOccurred())
		Expect(m.mif()).To(Equal(m.mif()))
	})

	It("renders values in hexadecimal", func() {
		m, err := memInstance(netlist.RAM, 8, 1, 10, ramParams(8, 1, "255,16")...)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(m.mif())).To(ContainSubstring("0 : FF;\n1 : 10;\n"))
	})
})

var _ = Describe("memory macro instantiation", func() {
	It("parameterizes a single-port ram", func() {
		m, err := memInstance(netlist.RAM, 2, 1, 4, ramParams(2, 1, "3")...)
		Expect(err).ToNot(HaveOccurred())

		text := string(m.macro())
		Expect(text).To(ContainSubstring(`.operation_mode("SINGLE_PORT")`))
		Expect(text).To(ContainSubstring(".width_a(2)"))
		Expect(text).To(ContainSubstring(".widthad_a(1)"))
		Expect(text).To(ContainSubstring(".numwords_a(2)"))
		Expect(text).To(ContainSubstring(`.init_file("m1.mif")`))
		Expect(text).To(ContainSubstring(".wren_a(n0_0)"))
		// data bus low bits first, msb-first in the concatenation
		Expect(text).To(ContainSubstring(".data_a({n0_0, n0_0})"))
		Expect(text).To(ContainSubstring(".q_a({n1_1, n1_0})"))
	})

	It("parameterizes both ports of a dual-port ram", func() {
		m, err := memInstance(netlist.DualRAM, 2, 1, 8, ramParams(2, 1, "")...)
		Expect(err).ToNot(HaveOccurred())

		text := string(m.macro())
		Expect(text).To(ContainSubstring(`.operation_mode("BIDIR_DUAL_PORT")`))
		Expect(text).To(ContainSubstring(".wren_b(n0_0)"))
		Expect(text).To(ContainSubstring(".q_b({n1_3, n1_2})"))
		Expect(text).ToNot(ContainSubstring("init_file"))
	})
})

var _ = Describe("memory shape checking", func() {
	It("rejects a signal list inconsistent with the declared widths", func() {
		_, err := memInstance(netlist.RAM, 8, 2, 10, ramParams(8, 2, "")...)
		Expect(err).To(HaveOccurred())
		Expect(KindOf(err)).To(Equal(MalformedInstance))
	})

	It("requires the width parameter", func() {
		_, err := memInstance(netlist.RAM, 8, 2, 11,
			netlist.Param{Key: "abits", Value: "2"})
		Expect(KindOf(err)).To(Equal(MissingParameter))
	})

	It("rejects more init values than locations", func() {
		_, err := memInstance(netlist.RAM, 8, 1, 10, ramParams(8, 1, "1,2,3")...)
		Expect(KindOf(err)).To(Equal(MalformedInstance))
	})

	It("rejects init values wider than the data bus", func() {
		_, err := memInstance(netlist.RAM, 2, 1, 4, ramParams(2, 1, "4")...)
		Expect(KindOf(err)).To(Equal(MalformedInstance))
	})
})
