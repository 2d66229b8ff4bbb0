// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol request.
// Only top-level defines are reported since nested ones do not outlive the
// expression containing them.
func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	s.captureNotify(ctx)
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	symbols := []protocol.DocumentSymbol{}
	for _, def := range doc.defs {
		r := symbolRange(def.Source, def.Name)
		sym := protocol.DocumentSymbol{
			Name:           def.Name,
			Kind:           protocol.SymbolKindVariable,
			Range:          r,
			SelectionRange: r,
		}
		if def.IsProcedure() {
			sym.Kind = protocol.SymbolKindFunction
			sym.Detail = strPtr(signature(def.Name, def.Params))
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}
