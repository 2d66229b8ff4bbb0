// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/token"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const testURI = "file:///test.lisp"

const testSource = `(define limit 10)
(define (double x) (* x 2))
(double limit)
`

// testServer creates a server with the default natives and prelude.
func testServer(t *testing.T) *Server {
	t.Helper()
	log, _ := test.NewNullLogger()
	s, err := New(WithLogger(log))
	require.NoError(t, err)
	return s
}

// openDoc opens a document in the test server and returns it.
func openDoc(s *Server, uri, content string) *Document {
	return s.docs.Open(uri, 1, content)
}

// mockContext returns a minimal glsp.Context for testing.
func mockContext() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {},
	}
}

// capturingContext returns a context that captures published diagnostics.
func capturingContext() (*glsp.Context, *[]*protocol.PublishDiagnosticsParams) {
	var captured []*protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				captured = append(captured, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
	return ctx, &captured
}

func position(line, col int) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Position:     protocol.Position{Line: safeUint(line), Character: safeUint(col)},
	}
}

// completionLabels extracts labels from a completion result.
func completionLabels(t *testing.T, result any) []string {
	t.Helper()
	require.NotNil(t, result, "completion result should not be nil")
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok, "completion result should be []CompletionItem, got %T", result)
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	return labels
}

func TestPositionConversion(t *testing.T) {
	t.Run("1-based to 0-based", func(t *testing.T) {
		pos := toLSPPosition(&token.Location{File: "test.lisp", Line: 1, Col: 1})
		assert.Equal(t, protocol.UInteger(0), pos.Line)
		assert.Equal(t, protocol.UInteger(0), pos.Character)
	})
	t.Run("multi-digit", func(t *testing.T) {
		pos := toLSPPosition(&token.Location{File: "test.lisp", Line: 5, Col: 10})
		assert.Equal(t, protocol.UInteger(4), pos.Line)
		assert.Equal(t, protocol.UInteger(9), pos.Character)
	})
	t.Run("zero values clamp", func(t *testing.T) {
		pos := toLSPPosition(&token.Location{File: "test.lisp"})
		assert.Equal(t, protocol.UInteger(0), pos.Line)
		assert.Equal(t, protocol.UInteger(0), pos.Character)
	})
	t.Run("symbol range counts runes", func(t *testing.T) {
		r := symbolRange(&token.Location{Line: 3, Col: 5}, "λx")
		assert.Equal(t, protocol.UInteger(2), r.Start.Line)
		assert.Equal(t, protocol.UInteger(4), r.Start.Character)
		assert.Equal(t, protocol.UInteger(2), r.End.Line)
		assert.Equal(t, protocol.UInteger(6), r.End.Character)
	})
}

func TestWordAtPosition(t *testing.T) {
	content := "(define (my-func x y)\n  (+ x y))"
	t.Run("middle of word", func(t *testing.T) {
		assert.Equal(t, "define", wordAtPosition(content, 0, 3))
		assert.Equal(t, "my-func", wordAtPosition(content, 0, 11))
	})
	t.Run("single char symbol", func(t *testing.T) {
		assert.Equal(t, "+", wordAtPosition(content, 1, 3))
		assert.Equal(t, "x", wordAtPosition(content, 1, 5))
	})
	t.Run("on paren", func(t *testing.T) {
		assert.Equal(t, "", wordAtPosition("( x)", 0, 0))
	})
	t.Run("end of line", func(t *testing.T) {
		assert.Equal(t, "my-add", wordAtPosition("(my-add", 0, 7))
	})
	t.Run("out of bounds", func(t *testing.T) {
		assert.Equal(t, "", wordAtPosition("hello", -1, 0))
		assert.Equal(t, "", wordAtPosition("hello", 5, 0))
		assert.Equal(t, "", wordAtPosition("hello", 0, 9))
	})
	t.Run("special chars", func(t *testing.T) {
		assert.Equal(t, "zero?", wordAtPosition("(zero? 1)", 0, 2))
		assert.Equal(t, "<=", wordAtPosition("(<= 1 2)", 0, 1))
	})
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/tmp/a.lisp", uriToPath("file:///tmp/a.lisp"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
	assert.Equal(t, "file:///tmp/a.lisp", pathToURI("/tmp/a.lisp"))
	assert.Equal(t, "file:///tmp/a.lisp", pathToURI("file:///tmp/a.lisp"))
}

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	doc := store.Open(testURI, 1, "(define x 1)")
	require.NotNil(t, doc)
	assert.Same(t, doc, store.Get(testURI))

	doc = store.Change(testURI, 2, "(define y 2)")
	assert.Equal(t, int32(2), doc.Version)
	require.Len(t, doc.defs, 1)
	assert.Equal(t, "y", doc.defs[0].Name)

	store.Close(testURI)
	assert.Nil(t, store.Get(testURI))

	doc = store.Change("file:///new.lisp", 1, "1")
	assert.NotNil(t, doc.tree)
}

func TestDocumentDefinitions(t *testing.T) {
	doc := &Document{URI: testURI, Content: testSource + "(define limit 20)\n((define hidden 1))\n"}
	doc.parse()
	require.NoError(t, doc.syntaxErr)
	require.Len(t, doc.defs, 3)

	assert.Equal(t, "limit", doc.defs[0].Name)
	assert.False(t, doc.defs[0].IsProcedure())
	assert.Equal(t, 9, doc.defs[0].Source.Col)

	assert.Equal(t, "double", doc.defs[1].Name)
	assert.Equal(t, []string{"x"}, doc.defs[1].Params)
	assert.Equal(t, 2, doc.defs[1].Source.Line)
	assert.Equal(t, 10, doc.defs[1].Source.Col)

	// the last define wins
	assert.Equal(t, 4, doc.definition("limit").Source.Line)
	assert.Nil(t, doc.definition("hidden"))
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		messages []string
		severity []protocol.DiagnosticSeverity
		lines    []protocol.UInteger
	}{
		{
			name:   "valid",
			source: testSource,
		},
		{
			name:     "unmatched open",
			source:   "(define x 1)\n(+ x",
			messages: []string{"unmatched ("},
			severity: []protocol.DiagnosticSeverity{protocol.DiagnosticSeverityError},
			lines:    []protocol.UInteger{1},
		},
		{
			name:     "error and recovery",
			source:   "1)\n(+ 2",
			messages: []string{"unmatched )", "unmatched ("},
			severity: []protocol.DiagnosticSeverity{
				protocol.DiagnosticSeverityError,
				protocol.DiagnosticSeverityWarning,
			},
			lines: []protocol.UInteger{0, 1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := testServer(t)
			ctx, captured := capturingContext()
			err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
				TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: tc.source},
			})
			require.NoError(t, err)
			require.Len(t, *captured, 1)
			diags := (*captured)[0].Diagnostics
			require.Len(t, diags, len(tc.messages))
			for i, d := range diags {
				assert.Equal(t, tc.messages[i], d.Message)
				assert.Equal(t, tc.severity[i], *d.Severity)
				assert.Equal(t, tc.lines[i], d.Range.Start.Line)
				assert.Equal(t, diagnosticSource, *d.Source)
			}
		})
	}
}

func TestDiagnosticsIncludeLint(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()
	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: "(define x 1)\n(if x 1)"},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	diags := (*captured)[0].Diagnostics
	require.Len(t, diags, 1)
	assert.Equal(t, "if requires 3 arguments, got 2", diags[0].Message)
	assert.Equal(t, lintSource, *diags[0].Source)
	assert.Equal(t, "special-form-arity", diags[0].Code.Value)
	assert.Equal(t, protocol.UInteger(1), diags[0].Range.Start.Line)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
}

func TestDiagnosticsOnSaveAndClose(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()
	openDoc(s, testURI, "(+ 1")

	err := s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	assert.Len(t, (*captured)[0].Diagnostics, 1)

	err = s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 2)
	assert.Empty(t, (*captured)[1].Diagnostics)
	assert.Nil(t, s.docs.Get(testURI))
}

func TestDidChangeUpdatesDocument(t *testing.T) {
	s := testServer(t)
	openDoc(s, testURI, "(define x 1)")
	err := s.textDocumentDidChange(mockContext(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "(define y 2)"},
		},
	})
	require.NoError(t, err)
	doc := s.docs.Get(testURI)
	assert.Equal(t, "(define y 2)", doc.Content)
	assert.NotNil(t, doc.definition("y"))
	require.NoError(t, s.shutdown(mockContext()))
}

func TestHover(t *testing.T) {
	s := testServer(t)
	openDoc(s, testURI, testSource)

	hover := func(line, col int) string {
		t.Helper()
		h, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{
			TextDocumentPositionParams: position(line, col),
		})
		require.NoError(t, err)
		if h == nil {
			return ""
		}
		return h.Contents.(protocol.MarkupContent).Value
	}

	t.Run("special form", func(t *testing.T) {
		content := hover(0, 2)
		assert.Contains(t, content, "**special form** `define`")
		assert.Contains(t, content, "Binds a name in the current scope")
	})
	t.Run("procedure", func(t *testing.T) {
		content := hover(2, 3)
		assert.Contains(t, content, "**procedure** `double`")
		assert.Contains(t, content, "(double x)")
		assert.Contains(t, content, "*Defined in /test.lisp:2*")
	})
	t.Run("builtin", func(t *testing.T) {
		assert.Contains(t, hover(1, 20), "**builtin** `*`")
	})
	t.Run("prelude", func(t *testing.T) {
		s2 := testServer(t)
		s2.docs.Open(testURI, 1, "(square 2)")
		h, err := s2.textDocumentHover(mockContext(), &protocol.HoverParams{
			TextDocumentPositionParams: position(0, 1),
		})
		require.NoError(t, err)
		require.NotNil(t, h)
		assert.Contains(t, h.Contents.(protocol.MarkupContent).Value, "(square x)")
	})
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, hover(3, 0))
	})
}

func TestDefinition(t *testing.T) {
	s := testServer(t)
	openDoc(s, testURI, testSource)

	result, err := s.textDocumentDefinition(mockContext(), &protocol.DefinitionParams{
		TextDocumentPositionParams: position(2, 10),
	})
	require.NoError(t, err)
	loc, ok := result.(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, testURI, loc.URI)
	assert.Equal(t, protocol.UInteger(0), loc.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(8), loc.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(13), loc.Range.End.Character)

	result, err = s.textDocumentDefinition(mockContext(), &protocol.DefinitionParams{
		TextDocumentPositionParams: position(1, 20),
	})
	require.NoError(t, err)
	assert.Nil(t, result, "builtins have no definition")
}

func TestReferences(t *testing.T) {
	s := testServer(t)
	openDoc(s, testURI, testSource)

	refs := func(include bool) []protocol.Location {
		locs, err := s.textDocumentReferences(mockContext(), &protocol.ReferenceParams{
			TextDocumentPositionParams: position(1, 22),
			Context:                    protocol.ReferenceContext{IncludeDeclaration: include},
		})
		require.NoError(t, err)
		return locs
	}
	// the cursor is on the x in (* x 2)
	assert.Len(t, refs(true), 2)

	locs, err := s.textDocumentReferences(mockContext(), &protocol.ReferenceParams{
		TextDocumentPositionParams: position(2, 2),
		Context:                    protocol.ReferenceContext{IncludeDeclaration: false},
	})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, protocol.UInteger(2), locs[0].Range.Start.Line)
}

func TestDocumentSymbols(t *testing.T) {
	s := testServer(t)
	openDoc(s, testURI, testSource)
	result, err := s.textDocumentDocumentSymbol(mockContext(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	symbols, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok)
	require.Len(t, symbols, 2)
	assert.Equal(t, "limit", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindVariable, symbols[0].Kind)
	assert.Equal(t, "double", symbols[1].Name)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[1].Kind)
	assert.Equal(t, "(double x)", *symbols[1].Detail)

	openDoc(s, "file:///empty.lisp", "")
	result, err = s.textDocumentDocumentSymbol(mockContext(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///empty.lisp"},
	})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestCompletion(t *testing.T) {
	s := testServer(t)
	openDoc(s, testURI, testSource+"(d")

	result, err := s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{
		TextDocumentPositionParams: position(3, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"define", "double"}, completionLabels(t, result))

	openDoc(s, testURI, "(m")
	result, err = s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{
		TextDocumentPositionParams: position(0, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"max", "min", "mod"}, completionLabels(t, result))
}

func TestCompletionSessionConfig(t *testing.T) {
	log, _ := test.NewNullLogger()
	s, err := New(
		WithLogger(log),
		WithSessionConfig(lisp.WithoutPrelude(), lisp.WithPrelude("extra", "(define (zap y) y)")),
	)
	require.NoError(t, err)
	openDoc(s, testURI, "(z")
	result, err := s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{
		TextDocumentPositionParams: position(0, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"zap"}, completionLabels(t, result))
}

func TestUnknownDocument(t *testing.T) {
	s := testServer(t)
	h, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{
		TextDocumentPositionParams: position(0, 0),
	})
	require.NoError(t, err)
	assert.Nil(t, h)
	result, err := s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{
		TextDocumentPositionParams: position(0, 0),
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestExitHandler(t *testing.T) {
	s := testServer(t)
	var exitCode = -1
	s.exitFn = func(code int) { exitCode = code }
	require.NoError(t, s.exit(mockContext()))
	assert.Equal(t, 0, exitCode)
}

func TestInitializeLifecycle(t *testing.T) {
	s := testServer(t)
	result, err := s.initialize(mockContext(), &protocol.InitializeParams{})
	require.NoError(t, err)
	initResult, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, initResult.ServerInfo)
	assert.Equal(t, serverName, initResult.ServerInfo.Name)
	assert.NotNil(t, initResult.Capabilities.HoverProvider)
	assert.NotNil(t, initResult.Capabilities.DefinitionProvider)
	assert.Equal(t, []string{"("}, initResult.Capabilities.CompletionProvider.TriggerCharacters)
}

func TestFormatting(t *testing.T) {
	s := testServer(t)
	const uri = "file:///tmp/fmt.lisp"
	params := func(tabSize float64) *protocol.DocumentFormattingParams {
		return &protocol.DocumentFormattingParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Options:      protocol.FormattingOptions{"tabSize": tabSize, "insertSpaces": true},
		}
	}

	openDoc(s, uri, "(define (sq x)\n(* x   x))")
	edits, err := s.textDocumentFormatting(mockContext(), params(2))
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "(define (sq x)\n  (* x x))\n", edits[0].NewText)
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, edits[0].Range.Start)
	assert.Equal(t, protocol.UInteger(2), edits[0].Range.End.Line)

	edits, err = s.textDocumentFormatting(mockContext(), params(4))
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "(define (sq x)\n    (* x x))\n", edits[0].NewText)

	openDoc(s, uri, "(define (sq x)\n  (* x x))\n")
	edits, err = s.textDocumentFormatting(mockContext(), params(2))
	require.NoError(t, err)
	assert.Nil(t, edits, "formatted document needs no edits")

	openDoc(s, uri, "(define (sq x)")
	edits, err = s.textDocumentFormatting(mockContext(), params(2))
	require.NoError(t, err)
	assert.Nil(t, edits, "unbalanced document is left alone")
}
