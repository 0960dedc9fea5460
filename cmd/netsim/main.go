// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command netsim compiles a textual netlist into a cycle-accurate Go
// simulation of the circuit, plus memory initialization files and optional
// vendor macro instantiation text for its memory primitives.
//
// With -run, the netlist is executed directly instead and the encoded
// result printed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/netsim"
	"github.com/db47h/netsim/netlist"
)

var (
	outDir   = flag.String("o", ".", "output directory for generated artifacts")
	pkgName  = flag.String("pkg", "sim", "package name of the generated source")
	doneName = flag.String("done", "done", "name of the completion flag output")
	macros   = flag.Bool("macros", false, "emit vendor macro instantiations for memories")
	run      = flag.Bool("run", false, "run the netlist instead of compiling it")
	inputs   = flag.String("in", "", "input values for -run, e.g. start=1,sel=0")
	cycles   = flag.Int("cycles", 0, "cycle limit for -run (0 = default)")
	verbose  = flag.Bool("v", false, "verbose output")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("netsim: ")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: netsim [options] <netlist file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	nl, err := netlist.Parse(f)
	f.Close()
	if err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
	if *verbose {
		log.Printf("circuit %s: %d instances, %d outputs",
			nl.Name(), len(nl.Instances()), len(nl.Outputs()))
	}

	if *run {
		in, err := parseInputs(*inputs)
		if err != nil {
			log.Fatal(err)
		}
		v, err := netsim.Run(nl, netsim.RunConfig{
			Done:      *doneName,
			Inputs:    in,
			MaxCycles: *cycles,
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(v)
		return
	}

	as, err := netsim.Compile(nl, netsim.Config{
		Package: *pkgName,
		Done:    *doneName,
		Macros:  *macros,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := as.WriteDir(*outDir); err != nil {
		log.Fatal(err)
	}
	if *verbose {
		for _, a := range as {
			log.Printf("wrote %s (%d bytes)", a.Name, len(a.Data))
		}
	}
}

func parseInputs(s string) (map[string]uint64, error) {
	in := make(map[string]uint64)
	if s == "" {
		return in, nil
	}
	for _, kv := range strings.Split(s, ",") {
		eq := strings.IndexByte(kv, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("bad input assignment %q", kv)
		}
		v, err := strconv.ParseUint(kv[eq+1:], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad input value %q", kv)
		}
		in[kv[:eq]] = v
	}
	return in, nil
}
