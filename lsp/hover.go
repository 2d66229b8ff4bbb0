// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
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
	content := s.hoverContent(doc, atom.Atom.Str)
	if content == "" {
		return nil, nil
	}
	r := symbolRange(atom.Source, atom.Atom.Str)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
		Range: &r,
	}, nil
}

// hoverContent builds Markdown hover text for name.  Special forms win over
// everything, then the document's own definitions, then builtins and the
// prelude.  This mirrors the order the evaluator resolves a form's head.
func (s *Server) hoverContent(doc *Document, name string) string {
	for _, op := range lisp.SpecialForms() {
		if op.Name() == name {
			return hoverText("special form", name, nil, op.Doc(), "")
		}
	}
	if def := doc.definition(name); def != nil {
		kind := "variable"
		if def.IsProcedure() {
			kind = "procedure"
		}
		where := fmt.Sprintf("%s:%d", def.Source.File, def.Source.Line)
		return hoverText(kind, name, def.Params, "", where)
	}
	if fun, ok := s.scope.Native(name); ok {
		return hoverText("builtin", name, nil, fun.Doc(), "")
	}
	if v, ok := s.scope.Lookup(name); ok {
		if v.Type == lisp.LLambda {
			return hoverText("procedure", name, v.Params, "", lisp.PreludeName)
		}
		return hoverText("variable", name, nil, "Value: `"+v.String()+"`", lisp.PreludeName)
	}
	return ""
}

func hoverText(kind, name string, params []string, doc, where string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", kind, name)
	if params != nil {
		fmt.Fprintf(&sb, "\n\n```lisp\n%s\n```", signature(name, params))
	}
	if doc != "" {
		fmt.Fprintf(&sb, "\n\n%s", normalizeDoc(doc))
	}
	if where != "" {
		fmt.Fprintf(&sb, "\n\n*Defined in %s*", where)
	}
	return sb.String()
}

// normalizeDoc joins the indented lines of a docstring into one paragraph.
func normalizeDoc(doc string) string {
	return strings.Join(strings.Fields(doc), " ")
}
