// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parse reads a netlist in the textual interchange format:
//
//	circuit <name>
//	<id> <kind> [in <wire>,<wire>,...] [w <arity>] [<key>=<value> ...]
//	out <name> <wire>
//
// where <wire> is <id>.<port>, or just <id> for port 0. Blank lines and
// lines starting with # are ignored. Instance ids must be dense and in
// order, starting at 0.
//
func Parse(r io.Reader) (*Netlist, error) {
	var b *Builder
	next := 0

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "circuit":
			if b != nil {
				return nil, parseError(line, "duplicate circuit line")
			}
			if len(fields) != 2 {
				return nil, parseError(line, "expected circuit <name>")
			}
			b = New(fields[1])
		case "out":
			if b == nil {
				return nil, parseError(line, "out before circuit line")
			}
			if len(fields) != 3 {
				return nil, parseError(line, "expected out <name> <wire>")
			}
			w, err := parseWire(fields[2])
			if err != nil {
				return nil, parseError(line, err.Error())
			}
			b.Bind(fields[1], w)
		default:
			if b == nil {
				return nil, parseError(line, "instance before circuit line")
			}
			if err := parseInstance(b, next, fields); err != nil {
				return nil, parseError(line, err.Error())
			}
			next++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read netlist")
	}
	if b == nil {
		return nil, errors.New("empty netlist: no circuit line")
	}
	return b.Netlist()
}

func parseInstance(b *Builder, next int, fields []string) error {
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return errors.Errorf("expected instance id, got %q", fields[0])
	}
	if id != next {
		return errors.Errorf("instance id %d out of order, expected %d", id, next)
	}
	if len(fields) < 2 {
		return errors.New("missing primitive kind")
	}
	kind, ok := ParseKind(fields[1])
	if !ok {
		return errors.Errorf("unknown primitive %q", fields[1])
	}

	var (
		ins    []Wire
		params []Param
		width  = 1
	)
	for i := 2; i < len(fields); i++ {
		switch f := fields[i]; f {
		case "in":
			i++
			if i >= len(fields) {
				return errors.New("missing wire list after in")
			}
			for _, s := range strings.Split(fields[i], ",") {
				w, err := parseWire(s)
				if err != nil {
					return err
				}
				ins = append(ins, w)
			}
		case "w":
			i++
			if i >= len(fields) {
				return errors.New("missing arity after w")
			}
			if width, err = strconv.Atoi(fields[i]); err != nil || width < 1 {
				return errors.Errorf("bad output arity %q", fields[i])
			}
		default:
			eq := strings.IndexByte(f, '=')
			if eq <= 0 {
				return errors.Errorf("expected key=value, got %q", f)
			}
			params = append(params, Param{Key: f[:eq], Value: f[eq+1:]})
		}
	}
	b.Add(kind, width, ins, params...)
	return nil
}

func parseWire(s string) (Wire, error) {
	ids, port := s, "0"
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		ids, port = s[:dot], s[dot+1:]
	}
	id, err := strconv.Atoi(ids)
	if err != nil {
		return Wire{}, errors.Errorf("bad wire %q", s)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 {
		return Wire{}, errors.Errorf("bad wire %q", s)
	}
	return Wire{Inst: ID(id), Port: p}, nil
}

func parseError(line int, msg string) error {
	return errors.Errorf("line %d: %s", line, msg)
}
