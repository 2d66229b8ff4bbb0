// Copyright © 2024 The ELPS authors

// Package astutil provides shared walking utilities for expression trees
// produced by a lisp.Reader.
//
// These helpers are used by the lint and lsp packages.
package astutil

import (
	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/token"
)

// Walk calls fn for every node in the tree, depth-first.
// parent is nil for top-level expressions.
func Walk(exprs []*lisp.Expr, fn func(node *lisp.Expr, parent *lisp.Expr, depth int)) {
	for _, expr := range exprs {
		walkNode(expr, nil, 0, fn)
	}
}

func walkNode(node *lisp.Expr, parent *lisp.Expr, depth int, fn func(*lisp.Expr, *lisp.Expr, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	for _, child := range node.Forms {
		walkNode(child, node, depth+1, fn)
	}
}

// WalkForms calls fn for every non-empty form (potential procedure
// application or special form) in the tree.
func WalkForms(exprs []*lisp.Expr, fn func(form *lisp.Expr, depth int)) {
	Walk(exprs, func(node *lisp.Expr, _ *lisp.Expr, depth int) {
		if node.Type == lisp.ExprForm && len(node.Forms) > 0 {
			fn(node, depth)
		}
	})
}

// Symbols calls fn for each symbol atom in source order until fn returns
// false.
func Symbols(exprs []*lisp.Expr, fn func(atom *lisp.Expr) bool) {
	for _, expr := range exprs {
		if !symbols(expr, fn) {
			return
		}
	}
}

func symbols(node *lisp.Expr, fn func(*lisp.Expr) bool) bool {
	if node == nil {
		return true
	}
	if _, ok := node.SymbolName(); ok {
		return fn(node)
	}
	for _, child := range node.Forms {
		if !symbols(child, fn) {
			return false
		}
	}
	return true
}

// HeadSymbol returns the symbol name at the head of a form, or "".
func HeadSymbol(form *lisp.Expr) string {
	if form.Type != lisp.ExprForm || len(form.Forms) == 0 {
		return ""
	}
	name, _ := form.Forms[0].SymbolName()
	return name
}

// ArgCount returns the number of arguments in a form (excluding the head).
func ArgCount(form *lisp.Expr) int {
	if len(form.Forms) <= 1 {
		return 0
	}
	return len(form.Forms) - 1
}

// Formals returns the parameter lists in the tree: the signature of each
// (define (name params...) body) and the parameter list of each lambda.
// They look like applications but are never evaluated.
func Formals(exprs []*lisp.Expr) map[*lisp.Expr]bool {
	lists := make(map[*lisp.Expr]bool)
	WalkForms(exprs, func(form *lisp.Expr, _ int) {
		switch HeadSymbol(form) {
		case "define", "lambda":
			if ArgCount(form) >= 1 && form.Forms[1].Type == lisp.ExprForm {
				lists[form.Forms[1]] = true
			}
		}
	})
	return lists
}

// UserDefined returns the set of names bound anywhere in the source.  This
// includes:
//   - Names bound by define, in either form
//   - Parameter names from define signatures and lambda parameter lists
//
// The result is file-global.  Bindings are dynamically scoped so any of
// these names may be visible when a procedure body runs.
func UserDefined(exprs []*lisp.Expr) map[string]bool {
	defs := make(map[string]bool)
	WalkForms(exprs, func(form *lisp.Expr, depth int) {
		switch HeadSymbol(form) {
		case "define":
			if ArgCount(form) < 1 {
				return
			}
			target := form.Forms[1]
			if name, ok := target.SymbolName(); ok {
				defs[name] = true
				return
			}
			CollectFormals(target, defs)
		case "lambda":
			if ArgCount(form) >= 1 {
				CollectFormals(form.Forms[1], defs)
			}
		}
	})
	return defs
}

// CollectFormals adds the symbols of a parameter list to defs.
func CollectFormals(formals *lisp.Expr, defs map[string]bool) {
	if formals == nil || formals.Type != lisp.ExprForm {
		return
	}
	for _, p := range formals.Forms {
		if name, ok := p.SymbolName(); ok {
			defs[name] = true
		}
	}
}

// SourceOf returns the best source location for a node.
// Prefers the node's own source, falls back to the first child's source.
func SourceOf(e *lisp.Expr) *token.Location {
	if e.Source != nil && e.Source.Line > 0 {
		return e.Source
	}
	if len(e.Forms) > 0 && e.Forms[0].Source != nil {
		return e.Forms[0].Source
	}
	return e.Source
}
