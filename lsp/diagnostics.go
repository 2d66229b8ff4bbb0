// Copyright © 2024 The ELPS authors

package lsp

import (
	"errors"
	"time"

	"github.com/luthersystems/minilisp/lint"
	"github.com/luthersystems/minilisp/parser/token"
	"github.com/tliron/glsp"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	debounceDelay    = 300 * time.Millisecond
	diagnosticSource = "minilisp"
	lintSource       = "minilisp-lint"
)

// textDocumentDidOpen handles textDocument/didOpen.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.publishDiagnostics(doc)
	return nil
}

// textDocumentDidChange handles textDocument/didChange with full sync.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last change contains the full content.
	var text string
	switch c := params.ContentChanges[len(params.ContentChanges)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		text = c.Text
	case protocol.TextDocumentContentChangeEvent:
		text = c.Text
	default:
		return nil
	}
	doc := s.docs.Change(params.TextDocument.URI, int32(params.TextDocument.Version), text)
	s.debouncedDiagnostics(doc)
	return nil
}

// textDocumentDidSave handles textDocument/didSave.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Get(params.TextDocument.URI)
	if doc != nil {
		s.publishDiagnostics(doc)
	}
	return nil
}

// textDocumentDidClose handles textDocument/didClose.
func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.captureNotify(ctx)
	uri := params.TextDocument.URI
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
	s.docs.Close(uri)
	// Clear diagnostics for the closed document.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// debouncedDiagnostics schedules diagnostics after a short delay so rapid
// edits do not each trigger a publish.
func (s *Server) debouncedDiagnostics(doc *Document) {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		s.debounceMu.Lock()
		delete(s.debounce, doc.URI)
		s.debounceMu.Unlock()
		s.publishDiagnostics(doc)
	})
}

// publishDiagnostics sends the document's current diagnostics to the client.
func (s *Server) publishDiagnostics(doc *Document) {
	doc.mu.Lock()
	diags := documentDiagnostics(doc)
	if doc.tree != nil {
		lintDiags, err := s.linter.LintExprs(doc.tree.Forms, uriToPath(doc.URI))
		if err != nil {
			s.log.WithError(err).Warn("Lint failed")
		}
		for _, d := range lintDiags {
			diags = append(diags, convertLintDiagnostic(d))
		}
	}
	doc.mu.Unlock()

	s.log.WithField("uri", doc.URI).WithField("count", len(diags)).Debug("Publishing diagnostics")
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diags,
	})
}

// documentDiagnostics reports the strict reader's syntax error and the
// lenient reader's recoveries.  A recovery at the position of the syntax
// error repeats it and is omitted.
func documentDiagnostics(doc *Document) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	var errLoc *token.Location
	if doc.syntaxErr != nil {
		diags = append(diags, errorDiagnostic(doc.syntaxErr))
		var locerr *token.LocationError
		if errors.As(doc.syntaxErr, &locerr) {
			errLoc = locerr.Source
		}
	}
	for _, w := range doc.warnings {
		if errLoc != nil && w.Source != nil && w.Source.Pos == errLoc.Pos {
			continue
		}
		sev := protocol.DiagnosticSeverityWarning
		diags = append(diags, protocol.Diagnostic{
			Range:    toLSPRange(w.Source, 1),
			Severity: &sev,
			Source:   strPtr(diagnosticSource),
			Message:  w.Message,
		})
	}
	return diags
}

func errorDiagnostic(err error) protocol.Diagnostic {
	sev := protocol.DiagnosticSeverityError
	diag := protocol.Diagnostic{
		Severity: &sev,
		Source:   strPtr(diagnosticSource),
		Message:  err.Error(),
	}
	var locerr *token.LocationError
	if errors.As(err, &locerr) && locerr.Source != nil {
		diag.Range = toLSPRange(locerr.Source, 1)
		diag.Message = locerr.Err.Error()
	}
	return diag
}

// convertLintDiagnostic converts a lint.Diagnostic to an LSP Diagnostic.
func convertLintDiagnostic(d lint.Diagnostic) protocol.Diagnostic {
	sev := mapLintSeverity(d.Severity)
	return protocol.Diagnostic{
		Range:    toLSPRange(d.Pos.Location(), 0),
		Severity: &sev,
		Source:   strPtr(lintSource),
		Code:     &protocol.IntegerOrString{Value: d.Analyzer},
		Message:  d.Message,
	}
}

// mapLintSeverity converts a lint.Severity to a protocol.DiagnosticSeverity.
func mapLintSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return protocol.DiagnosticSeverityError
	case lint.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityWarning
	}
}
