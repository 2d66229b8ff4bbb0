// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/minilisp/astutil"
	"github.com/luthersystems/minilisp/lisp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentReferences handles the textDocument/references request.
// Bindings are dynamically scoped so every occurrence of the name in the
// document is a potential reference.
func (s *Server) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	s.captureNotify(ctx)
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	atom := symbolAt(doc.tree, int(params.Position.Line), int(params.Position.Character))
	if atom == nil {
		return nil, nil
	}
	name := atom.Atom.Str
	declarations := make(map[*lisp.Expr]bool)
	if !params.Context.IncludeDeclaration {
		for _, def := range doc.defs {
			if def.Name == name {
				declarations[definitionAtom(def)] = true
			}
		}
	}

	locs := []protocol.Location{}
	astutil.Symbols(doc.tree.Forms, func(e *lisp.Expr) bool {
		if e.Atom.Str != name || declarations[e] || e.Source == nil {
			return true
		}
		locs = append(locs, protocol.Location{
			URI:   params.TextDocument.URI,
			Range: symbolRange(e.Source, name),
		})
		return true
	})
	return locs, nil
}

// definitionAtom returns the atom naming def in its define form.
func definitionAtom(def *Definition) *lisp.Expr {
	target := def.Expr.Forms[1]
	if def.IsProcedure() {
		return target.Forms[0]
	}
	return target
}
