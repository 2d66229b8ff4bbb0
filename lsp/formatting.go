// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/minilisp/formatter"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFormatting returns a single whole-document edit, or nil when
// the document is already formatted or does not read cleanly.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	doc.mu.Lock()
	content := doc.Content
	uri := doc.URI
	doc.mu.Unlock()

	if content == "" {
		return nil, nil
	}

	cfg := formatter.DefaultConfig()
	if tabSize, ok := params.Options["tabSize"]; ok {
		switch v := tabSize.(type) {
		case float64:
			if v > 0 {
				cfg.IndentSize = int(v)
			}
		case int:
			if v > 0 {
				cfg.IndentSize = v
			}
		}
	}

	formatted, err := formatter.FormatFile([]byte(content), uriToPath(uri), cfg)
	if err != nil {
		// syntax errors are already published as diagnostics
		return nil, nil
	}
	if string(formatted) == content {
		return nil, nil
	}

	lines := strings.Count(content, "\n")
	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: safeUint(lines + 1), Character: 0},
			},
			NewText: string(formatted),
		},
	}, nil
}
