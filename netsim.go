// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/db47h/netsim/netlist"
)

// Config controls compilation.
//
type Config struct {
	// Package is the package clause of the generated simulation source.
	// Defaults to "sim".
	Package string
	// Done names the output used as completion flag. Defaults to "done".
	Done string
	// Macros enables emission of vendor macro instantiation text for
	// memory instances.
	Macros bool
	// NoFormat skips gofmt formatting of the generated source.
	NoFormat bool
}

func (c *Config) defaults() {
	if c.Package == "" {
		c.Package = "sim"
	}
	if c.Done == "" {
		c.Done = "done"
	}
}

// An Artifact is one generated file.
//
type Artifact struct {
	Name string
	Data []byte
}

// Artifacts is the complete set of files generated from one netlist.
// Compile returns either all of them or none: nothing is written while
// compilation can still fail.
//
type Artifacts []Artifact

// WriteDir writes all artifacts into dir, creating it if needed.
//
func (as Artifacts) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	for _, a := range as {
		if err := os.WriteFile(filepath.Join(dir, a.Name), a.Data, 0644); err != nil {
			return errors.Wrap(err, "write "+a.Name)
		}
	}
	return nil
}

// Compile turns a netlist into its simulation source plus the memory
// initialization files and, if requested, macro instantiation text of its
// memory instances. All failures are detected here; on error no artifact is
// returned.
//
func Compile(nl *netlist.Netlist, cfg Config) (Artifacts, error) {
	cfg.defaults()
	mems, err := validate(nl)
	if err != nil {
		return nil, err
	}
	sched, err := schedule(nl)
	if err != nil {
		return nil, err
	}
	src, err := emitSim(nl, sched, mems, &cfg)
	if err != nil {
		return nil, err
	}

	as := Artifacts{{Name: nl.Name() + ".go", Data: src}}
	for _, n := range nl.Instances() {
		m := mems[n.ID()]
		if m == nil {
			continue
		}
		if len(m.init) > 0 {
			as = append(as, Artifact{Name: m.mifName(), Data: m.mif()})
		}
		if cfg.Macros {
			as = append(as, Artifact{Name: m.name() + ".v", Data: m.macro()})
		}
	}
	return as, nil
}

// validate fails fast on any instance whose kind, arity or parameters are
// off, before anything is emitted. It returns the decoded memory instances.
//
func validate(nl *netlist.Netlist) (map[netlist.ID]*memSpec, error) {
	mems := make(map[netlist.ID]*memSpec)
	dummy := func(netlist.Wire) string { return "x" }
	for _, n := range nl.Instances() {
		switch n.Kind() {
		case netlist.Delay, netlist.DelayEn:
			if _, err := initValue(n); err != nil {
				return nil, err
			}
			if _, err := nextExpr(n, dummy, "x"); err != nil {
				return nil, err
			}
		case netlist.RAM, netlist.DualRAM:
			m, err := memSpecOf(n)
			if err != nil {
				return nil, err
			}
			mems[n.ID()] = m
		default:
			if _, err := combExpr(n, dummy); err != nil {
				return nil, err
			}
		}
	}
	return mems, nil
}
