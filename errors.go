// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/db47h/netsim/netlist"
)

// ErrKind classifies compilation failures. All failures are detected before
// any artifact is written and none are retried: the netlist is a pure input.
//
type ErrKind uint8

// Compilation failure kinds.
const (
	// CyclicNetlist: a dependency cycle with no register on it.
	CyclicNetlist ErrKind = iota + 1
	// UnknownPrimitive: an instance kind outside the closed registry.
	UnknownPrimitive
	// MalformedInstance: input count, output arity or parameter shape does
	// not match what the instance kind requires.
	MalformedInstance
	// MissingParameter: a required parameter key is absent.
	MissingParameter
	// ReservedIdentifier: a user-supplied name collides with a reserved
	// word of the output language.
	ReservedIdentifier
)

func (k ErrKind) String() string {
	switch k {
	case CyclicNetlist:
		return "cyclic netlist"
	case UnknownPrimitive:
		return "unknown primitive"
	case MalformedInstance:
		return "malformed instance"
	case MissingParameter:
		return "missing parameter"
	case ReservedIdentifier:
		return "reserved identifier"
	}
	return "error"
}

// An Error is a typed compilation failure carrying the offending instance id
// (or -1 when no single instance is at fault) for diagnosis.
//
type Error struct {
	Kind ErrKind
	Inst netlist.ID
	msg  string
}

func (e *Error) Error() string {
	if e.Inst < 0 {
		return e.Kind.String() + ": " + e.msg
	}
	return fmt.Sprintf("%s: instance %d: %s", e.Kind, e.Inst, e.msg)
}

func newError(k ErrKind, id netlist.ID, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Inst: id, msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrKind of err, unwrapping any context added with
// pkg/errors. It returns 0 for errors that are not compilation failures.
//
func KindOf(err error) ErrKind {
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Kind
	}
	return 0
}
