// Copyright © 2024 The ELPS authors

// Package lint provides static analysis for minilisp source files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives the parsed expressions and reports diagnostics. The
// framework handles parsing, running analyzers, collecting results, and
// formatting output.
//
// Embedders can define custom checks alongside the built-in set.
package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/rdparser"
	"github.com/luthersystems/minilisp/parser/token"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "if-arity").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Exprs are the top-level parsed expressions.
	Exprs []*lisp.Expr

	// Scope holds the natives and prelude bindings the file is evaluated
	// against.  Nil when the linter has no session.  Analyzers that
	// resolve names should check for nil and return early.
	Scope *lisp.Scope

	// diagnostics collects reported findings.
	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(source *token.Location, notes []string, format string, args ...interface{}) {
	d := Diagnostic{
		Message: fmt.Sprintf(format, args...),
		Notes:   notes,
	}
	if source != nil {
		d.Pos = Position{File: source.File, Line: source.Line, Col: source.Col}
	}
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic at a position.
func (p *Pass) Reportf(source *token.Location, format string, args ...interface{}) {
	p.ReportWithNotes(source, nil, format, args...)
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Location returns the position as a source location.
func (p Position) Location() *token.Location {
	return &token.Location{File: p.File, Line: p.Line, Col: p.Col}
}

// String returns the diagnostic in go vet style: file:line: message (analyzer)
// with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer

	// Scope, if non-nil, is passed to analyzers which resolve names.
	Scope *lisp.Scope
}

// LintFile parses source with the lenient reader and analyzes it.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	p := rdparser.New(token.NewScanner(filename, bytes.NewReader(source)))
	tree, err := p.ParseProgram()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return l.LintExprs(tree.Forms, filename)
}

// LintExprs analyzes expressions that have already been read.
func (l *Linter) LintExprs(exprs []*lisp.Expr, filename string) ([]Diagnostic, error) {
	var all []Diagnostic
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer: analyzer,
			Filename: filename,
			Exprs:    exprs,
			Scope:    l.Scope,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		// Set file on diagnostics that don't have one
		for i := range pass.diagnostics {
			if pass.diagnostics[i].Pos.File == "" {
				pass.diagnostics[i].Pos.File = filename
			}
		}
		all = append(all, pass.diagnostics...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Pos.File != all[j].Pos.File {
			return all[i].Pos.File < all[j].Pos.File
		}
		if all[i].Pos.Line != all[j].Pos.Line {
			return all[i].Pos.Line < all[j].Pos.Line
		}
		return all[i].Pos.Col < all[j].Pos.Col
	})
	return all, nil
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerSpecialFormArity,
		AnalyzerDefineStructure,
		AnalyzerCondStructure,
		AnalyzerNativeArity,
		AnalyzerNestedDefine,
		AnalyzerLiteralCondition,
		AnalyzerUnappliedLambda,
		AnalyzerUnresolvedHead,
	}
}

// AnalyzerNames returns the names of the default analyzers.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	return names
}

// AnalyzerDoc returns a summary line for each default analyzer.
func AnalyzerDoc() string {
	var sb strings.Builder
	for _, a := range DefaultAnalyzers() {
		summary := a.Doc
		if i := strings.Index(summary, "\n"); i >= 0 {
			summary = summary[:i]
		}
		fmt.Fprintf(&sb, "  %-20s %s\n", a.Name, summary)
	}
	return sb.String()
}

// SelectAnalyzers returns the default analyzers named in names.  An unknown
// name is an error.
func SelectAnalyzers(names []string) ([]*Analyzer, error) {
	if len(names) == 0 {
		return DefaultAnalyzers(), nil
	}
	selected := make(map[string]bool)
	for _, name := range names {
		selected[strings.TrimSpace(name)] = true
	}
	var analyzers []*Analyzer
	for _, a := range DefaultAnalyzers() {
		if selected[a.Name] {
			analyzers = append(analyzers, a)
			delete(selected, a.Name)
		}
	}
	for name := range selected {
		return nil, fmt.Errorf("unknown check: %s", name)
	}
	return analyzers, nil
}
