// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Config is a function that configures a Session before its scope is
// created and its prelude is loaded.
type Config func(s *Session) error

// WithReader returns a Config that makes sessions use r to parse source
// streams.  There is no default Reader for a session.
func WithReader(r Reader) Config {
	return func(s *Session) error {
		s.Reader = r
		return nil
	}
}

// WithStderr returns a Config that makes sessions write log output to w
// instead of the default, os.Stderr.  WithStderr has no effect on a session
// configured WithLogger.
func WithStderr(w io.Writer) Config {
	return func(s *Session) error {
		s.Stderr = w
		return nil
	}
}

// WithLogger returns a Config that makes sessions log through l.  Entries
// are annotated with the session id.
func WithLogger(l logrus.FieldLogger) Config {
	return func(s *Session) error {
		s.logger = l
		return nil
	}
}

// WithProfiler returns a Config that attaches p to the session's evaluator.
func WithProfiler(p Profiler) Config {
	return func(s *Session) error {
		s.eval.Profiler = p
		return nil
	}
}

// WithMaxDepth returns a Config that makes evaluation signal stack-overflow
// when expressions nest deeper than n.  A negative n disables the limit.
func WithMaxDepth(n int) Config {
	return func(s *Session) error {
		if n == 0 {
			return errors.New("maximum depth must be non-zero")
		}
		s.eval.MaxDepth = n
		return nil
	}
}

// WithNatives returns a Config that registers natives in the session scope
// instead of DefaultNatives.
func WithNatives(natives ...NativeDef) Config {
	return func(s *Session) error {
		if len(natives) == 0 {
			return errors.New("no natives given")
		}
		s.natives = natives
		return nil
	}
}

// WithPrelude returns a Config that evaluates src after the builtin prelude
// when the session is created.  Name is used in error messages.
func WithPrelude(name string, src string) Config {
	return func(s *Session) error {
		s.preludes = append(s.preludes, preludeSource{name, src})
		return nil
	}
}

// WithoutPrelude returns a Config that skips the builtin prelude.  Sources
// added with WithPrelude are still loaded.
func WithoutPrelude() Config {
	return func(s *Session) error {
		s.noPrelude = true
		return nil
	}
}
