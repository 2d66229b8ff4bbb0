// Copyright © 2018 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/luthersystems/minilisp/lisp"
)

// FunLabeler provides an alternative name for a procedure label in the
// trace.
type FunLabeler func(name string, kind lisp.ProcKind) string

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// WithKindLabeler labels spans with the kind of procedure followed by its
// name, e.g. "native:+" or "lambda:square".
func WithKindLabeler() Option {
	return WithFunLabeler(func(name string, kind lisp.ProcKind) string {
		return kind.String() + ":" + name
	})
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}

	// Replace spaces with underscores
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")

	// Find the first valid label match
	matches := validLabelRegExp.FindStringSubmatch(userLabel)
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}
