// Copyright © 2018 The ELPS authors

// Package lisptest runs table driven tests and benchmarks against lisp
// sessions.
package lisptest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser"
	"github.com/sirupsen/logrus"
)

// BenchmarkParse returns a benchmark which reads source with a new Reader
// returned by r in each iteration.
func BenchmarkParse(source string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		b.SetBytes(int64(len(source)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", strings.NewReader(source))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// LispError reports err as a test failure, including the procedure stack if
// err is a *lisp.ErrorVal.
func LispError(t testing.TB, err error) {
	t.Helper()
	var lerr *lisp.ErrorVal
	if !errors.As(err, &lerr) {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a lisp.Session.
//
// Result is compared against the debug rendering of the value (the GoString
// method), e.g. "Int(3)".  When evaluation fails the rendering is
// "error(<condition>)", e.g. "error(type-mismatch)".
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the evaluated result
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// NewSession returns a session for use in t, logging to t and reading with
// the default reader.  Additional config is applied after the defaults.
func NewSession(t testing.TB, config ...lisp.Config) *lisp.Session {
	t.Helper()
	logger, w := NewTestLogger(t)
	t.Cleanup(w.Flush)
	config = append([]lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithLogger(logger),
	}, config...)
	s, err := lisp.NewSession(config...)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return s
}

// Render returns the rendering of an evaluation result used by
// TestSequence.
func Render(v lisp.Value, err error) string {
	if err == nil {
		return v.GoString()
	}
	var lerr *lisp.ErrorVal
	if errors.As(err, &lerr) {
		return fmt.Sprintf("error(%s)", lerr.Condition)
	}
	return fmt.Sprintf("error: %v", err)
}

// RunTestSuite runs each TestSequence in tests on isolated lisp.Sessions.
func RunTestSuite(t *testing.T, tests TestSuite, config ...lisp.Config) {
	for i, test := range tests {
		t.Logf("test %d -- %s", i, test.Name)
		s := NewSession(t, config...)
		for j, expr := range test.TestSequence {
			root, err := s.Read("test", expr.Expr)
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if root.Len() == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			result := Render(s.EvalExpr(root))
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that evaluates source in a fresh
// session in each iteration.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	r := parser.NewReader()
	root, err := r.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	for i := 0; i < b.N; i++ {
		s, err := lisp.NewSession(
			lisp.WithReader(r),
			lisp.WithLogger(logger),
		)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		_, err = s.EvalExpr(root)
		b.StopTimer()
		if err != nil {
			b.Fatal(err)
		}
	}
}
