// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"unicode"

	"github.com/db47h/netsim/netlist"
)

// goKeywords are the reserved words of the output language, plus the
// predeclared identifier the generated code relies on.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true,
	"for": true, "func": true, "go": true, "goto": true, "if": true,
	"import": true, "interface": true, "map": true, "package": true,
	"range": true, "return": true, "select": true, "struct": true,
	"switch": true, "type": true, "var": true,
	"uint64": true,
}

// checkIdent rejects user-supplied names that cannot become identifiers in
// the generated source: ill-formed names, reserved words of the output
// language, and names shadowing the v/r/m binding namespaces the emitter
// allocates from.
//
func checkIdent(id netlist.ID, name string) error {
	if !validIdent(name) {
		return newError(ReservedIdentifier, id, "%q is not a valid identifier", name)
	}
	if goKeywords[name] {
		return newError(ReservedIdentifier, id, "%q is a reserved word", name)
	}
	if len(name) >= 2 && isDigit(rune(name[1])) &&
		(name[0] == 'v' || name[0] == 'r' || name[0] == 'm') {
		return newError(ReservedIdentifier, id, "%q collides with generated bindings", name)
	}
	return nil
}

func validIdent(name string) bool {
	for i, r := range name {
		if unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return name != ""
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }
