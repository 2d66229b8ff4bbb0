// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"sync"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/rdparser"
	"github.com/luthersystems/minilisp/parser/regexparser"
	"github.com/luthersystems/minilisp/parser/token"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string

	tree     *lisp.Expr
	warnings []*rdparser.Warning
	// syntaxErr is the first error reported by the strict reader.
	syntaxErr error
	defs      []*Definition
}

// Definition is a name bound by a top-level define in a document.
type Definition struct {
	Name   string
	Params []string // nil unless the define has a procedure signature
	Source *token.Location
	Expr   *lisp.Expr
}

// IsProcedure reports whether the definition binds a lambda.
func (d *Definition) IsProcedure() bool {
	return d.Params != nil
}

// parse reads the document with the lenient reader, which always produces
// a tree, and with the strict reader to find syntax errors.
func (d *Document) parse() {
	name := uriToPath(d.URI)
	p := rdparser.New(token.NewScanner(name, strings.NewReader(d.Content)))
	tree, err := p.ParseProgram()
	d.warnings = p.Warnings()
	d.tree = tree
	d.syntaxErr = err
	if err == nil {
		_, d.syntaxErr = regexparser.Parse(name, []byte(d.Content))
	}
	d.defs = collectDefinitions(tree)
}

// collectDefinitions returns the top-level defines in tree.  Only these
// persist beyond the expression containing them.
func collectDefinitions(tree *lisp.Expr) []*Definition {
	if tree == nil {
		return nil
	}
	var defs []*Definition
	for _, expr := range tree.Forms {
		if expr.Type != lisp.ExprForm || len(expr.Forms) != 3 {
			continue
		}
		if head, ok := expr.Forms[0].SymbolName(); !ok || head != "define" {
			continue
		}
		target := expr.Forms[1]
		if name, ok := target.SymbolName(); ok {
			defs = append(defs, &Definition{Name: name, Source: target.Source, Expr: expr})
			continue
		}
		if target.Type != lisp.ExprForm || len(target.Forms) == 0 {
			continue
		}
		name, ok := target.Forms[0].SymbolName()
		if !ok {
			continue
		}
		params := []string{}
		for _, p := range target.Forms[1:] {
			if s, ok := p.SymbolName(); ok {
				params = append(params, s)
			}
		}
		defs = append(defs, &Definition{Name: name, Params: params, Source: target.Forms[0].Source, Expr: expr})
	}
	return defs
}

// definition returns the last top-level definition of name, which is the
// one in effect after the document is evaluated.
func (d *Document) definition(name string) *Definition {
	for i := len(d.defs) - 1; i >= 0; i-- {
		if d.defs[i].Name == name {
			return d.defs[i]
		}
	}
	return nil
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}
