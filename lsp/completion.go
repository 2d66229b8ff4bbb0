// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles textDocument/completion.
func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	s.captureNotify(ctx)
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	line := int(params.Position.Line)
	col := int(params.Position.Character)
	prefix := prefixAtPosition(doc.Content, line, col)
	return s.completionItems(doc, prefix), nil
}

// prefixAtPosition returns the part of the word before the cursor.
func prefixAtPosition(content string, line, col int) string {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	ln := []rune(lines[line])
	if col > len(ln) {
		col = len(ln)
	}
	start := col
	for start > 0 && isSymbolChar(ln[start-1]) {
		start--
	}
	return string(ln[start:col])
}

// completionItems collects special forms, natives, prelude variables and
// the document's own definitions whose names start with prefix.
func (s *Server) completionItems(doc *Document, prefix string) []protocol.CompletionItem {
	seen := make(map[string]bool)
	var items []protocol.CompletionItem
	add := func(label string, kind protocol.CompletionItemKind, detail string) {
		if seen[label] || !strings.HasPrefix(label, prefix) {
			return
		}
		seen[label] = true
		item := protocol.CompletionItem{Label: label, Kind: &kind}
		if detail != "" {
			item.Detail = strPtr(detail)
		}
		items = append(items, item)
	}

	for _, op := range lisp.SpecialForms() {
		add(op.Name(), protocol.CompletionItemKindKeyword, "special form")
	}
	for _, def := range doc.defs {
		kind := protocol.CompletionItemKindVariable
		detail := "variable"
		if def.IsProcedure() {
			kind = protocol.CompletionItemKindFunction
			detail = signature(def.Name, def.Params)
		}
		add(def.Name, kind, detail)
	}
	for _, def := range s.scope.Natives() {
		add(def.Name(), protocol.CompletionItemKindFunction, "builtin")
	}
	for _, name := range s.scope.Variables() {
		v, _ := s.scope.Lookup(name)
		if v.Type == lisp.LLambda {
			add(name, protocol.CompletionItemKindFunction, signature(name, v.Params))
			continue
		}
		add(name, protocol.CompletionItemKindVariable, "variable")
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

// signature renders a procedure call pattern such as (f x y).
func signature(name string, params []string) string {
	return "(" + strings.Join(append([]string{name}, params...), " ") + ")"
}
