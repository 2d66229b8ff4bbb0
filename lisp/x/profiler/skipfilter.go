// Copyright © 2018 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/luthersystems/minilisp/lisp"
)

// SkipFilter returns true for procedure applications which should not be
// traced.
type SkipFilter func(name string, kind lisp.ProcKind) bool

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithLambdasOnly skips native procedure calls so that only user procedures
// are traced.
func WithLambdasOnly() Option {
	return WithSkipFilter(func(name string, kind lisp.ProcKind) bool {
		return kind == lisp.ProcNative
	})
}

// WithNameFilter traces only procedures whose name matches re.
func WithNameFilter(re *regexp.Regexp) Option {
	return WithSkipFilter(func(name string, kind lisp.ProcKind) bool {
		return !re.MatchString(name)
	})
}
