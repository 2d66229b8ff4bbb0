// Copyright © 2018 The ELPS authors

package lisp

import "github.com/luthersystems/minilisp/parser/token"

// ProcKind identifies what kind of procedure a profiler is observing.
type ProcKind uint8

// Possible ProcKind values
const (
	ProcNative ProcKind = iota
	ProcLambda
)

func (k ProcKind) String() string {
	if k == ProcNative {
		return "native"
	}
	return "lambda"
}

// Profiler observes procedure application.  The evaluator calls Start before
// a native procedure is called or a lambda is applied and calls the returned
// function when the application completes, successfully or not.
type Profiler interface {
	// IsEnabled reports whether the evaluator should call Start.
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// Complete ends the profiling session and flushes any output.
	Complete() error
	// Start marks the start of an application of the named procedure.
	Start(name string, kind ProcKind, src *token.Location) func()
}
