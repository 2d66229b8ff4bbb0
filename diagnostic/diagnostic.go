// Copyright © 2024 The ELPS authors

// Package diagnostic renders evaluation errors and reader warnings as
// annotated source snippets for terminal output.
package diagnostic

import (
	"errors"
	"fmt"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/token"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // name used to look up source text
	Line   int    // 1-based line number
	Col    int    // 1-based start column, in runes
	EndCol int    // 1-based end column (0 = end of the token at Col)
	Label  string // text shown under the underline
}

// Diagnostic is a single error, warning, or note with optional source
// annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}

// SpanAt returns a Span for loc, or false if loc does not refer to source
// text.
func SpanAt(loc *token.Location, label string) (Span, bool) {
	if loc == nil || loc.Pos < 0 || loc.Line <= 0 {
		return Span{}, false
	}
	return Span{File: loc.File, Line: loc.Line, Col: loc.Col, Label: label}, true
}

// FromError converts an error returned by a lisp.Session into a
// Diagnostic.  Evaluation errors carry their condition and procedure stack
// and reader errors carry their location.
func FromError(err error) Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Message:  err.Error(),
	}
	var lerr *lisp.ErrorVal
	var locerr *token.LocationError
	switch {
	case errors.As(err, &lerr):
		d.Message = fmt.Sprintf("%s: %s", lerr.Condition, lerr.ErrorMessage())
		if lerr.Procedure != "" {
			d.Message = fmt.Sprintf("%s: %s: %s", lerr.Condition, lerr.Procedure, lerr.ErrorMessage())
		}
		label := ""
		if lerr.Value != nil {
			label = "offending value " + lerr.Value.String()
		}
		if span, ok := SpanAt(lerr.Source, label); ok {
			d.Spans = append(d.Spans, span)
		}
		for i := len(lerr.Stack) - 1; i >= 0; i-- {
			d.Notes = append(d.Notes, "in "+lerr.Stack[i])
		}
	case errors.As(err, &locerr):
		d.Message = locerr.Err.Error()
		if span, ok := SpanAt(locerr.Source, ""); ok {
			d.Spans = append(d.Spans, span)
		}
	}
	return d
}

// Warning returns a warning diagnostic at loc.
func Warning(loc *token.Location, msg string) Diagnostic {
	d := Diagnostic{Severity: SeverityWarning, Message: msg}
	if span, ok := SpanAt(loc, ""); ok {
		d.Spans = append(d.Spans, span)
	}
	return d
}
