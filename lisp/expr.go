// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"strings"

	"github.com/luthersystems/minilisp/parser/token"
)

// ExprType distinguishes the two shapes of an expression tree node.
type ExprType uint8

// Possible ExprType values
const (
	// ExprAtom nodes hold a literal or symbol in Expr.Atom.
	ExprAtom ExprType = iota
	// ExprForm nodes hold a parenthesized group in Expr.Forms.  An empty
	// form is the empty-list literal.
	ExprForm
)

func (t ExprType) String() string {
	if t == ExprAtom {
		return "atom"
	}
	return "form"
}

// Expr is a node of the expression tree produced by a Reader.  Expressions
// are not modified by evaluation and may be shared freely (a lambda body is
// a pointer into the tree it was read from).
type Expr struct {
	// Source is the location of the node's first token.  Programs should not
	// modify the contents of Source as the reference may be shared.
	Source *token.Location
	Atom   Value
	Forms  []*Expr
	Type   ExprType
}

// Atom returns an atom node holding v.
func Atom(v Value) *Expr {
	return &Expr{Type: ExprAtom, Atom: v, Source: nativeSource()}
}

// Form returns a form node with the given children.  The children are used
// as backing storage and are not copied.
func Form(children ...*Expr) *Expr {
	if children == nil {
		children = []*Expr{}
	}
	return &Expr{Type: ExprForm, Forms: children, Source: nativeSource()}
}

// SymbolName returns the name of the symbol held by an atom node.  The
// second return value is false when e is not a symbol atom.
func (e *Expr) SymbolName() (string, bool) {
	if e == nil || e.Type != ExprAtom || e.Atom.Type != LSymbol {
		return "", false
	}
	return e.Atom.Str, true
}

// Len returns the number of children of a form node, or -1 for atoms.
func (e *Expr) Len() int {
	if e.Type != ExprForm {
		return -1
	}
	return len(e.Forms)
}

// Equal reports whether e and other have the same shape and atoms.  Source
// locations are ignored.
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Type != other.Type {
		return false
	}
	if e.Type == ExprAtom {
		return e.Atom.Equal(other.Atom)
	}
	if len(e.Forms) != len(other.Forms) {
		return false
	}
	for i := range e.Forms {
		if !e.Forms[i].Equal(other.Forms[i]) {
			return false
		}
	}
	return true
}

// String returns the source rendering of e.
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.Type == ExprAtom {
		return e.Atom.String()
	}
	var buf bytes.Buffer
	buf.WriteString("(")
	for i, c := range e.Forms {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(c.String())
	}
	buf.WriteString(")")
	return buf.String()
}

// GoString returns the debug rendering of e, e.g. Form([Atom(Symbol("+")),
// Atom(Int(1))]).
func (e *Expr) GoString() string {
	if e == nil {
		return "<nil>"
	}
	if e.Type == ExprAtom {
		return "Atom(" + e.Atom.GoString() + ")"
	}
	parts := make([]string, len(e.Forms))
	for i, c := range e.Forms {
		parts[i] = c.GoString()
	}
	return "Form([" + strings.Join(parts, ", ") + "])"
}

var nativeLocation = &token.Location{File: "<native code>", Pos: -1}

func nativeSource() *token.Location {
	return nativeLocation
}
