// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition handles the textDocument/definition request.  It
// resolves to the last top-level define of the symbol under the cursor.
// Builtins and prelude definitions have no navigable source.
func (s *Server) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
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
	def := doc.definition(atom.Atom.Str)
	if def == nil || def.Source == nil || def.Source.Pos < 0 {
		return nil, nil
	}
	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: symbolRange(def.Source, def.Name),
	}, nil
}
