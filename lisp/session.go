// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session holds the scope shared by a sequence of top-level evaluations,
// such as the lines entered at a REPL.  Each top-level expression is
// evaluated against the scope committed by the previous one and its own
// scope is committed only if it evaluates without error.
//
// A Session is not safe for concurrent use.  Independent sessions share no
// state and may be used from different goroutines.
type Session struct {
	ID     uuid.UUID
	Reader Reader
	Stderr io.Writer
	Log    logrus.FieldLogger

	logger    logrus.FieldLogger
	eval      *Evaluator
	scope     *Scope
	natives   []NativeDef
	preludes  []preludeSource
	noPrelude bool
}

// NewSession creates a session, applies config and loads the prelude.
// Sessions require a Reader, see WithReader.
func NewSession(config ...Config) (*Session, error) {
	s := &Session{
		ID:     uuid.New(),
		Stderr: os.Stderr,
		eval:   &Evaluator{},
	}
	for _, fn := range config {
		if err := fn(s); err != nil {
			return nil, err
		}
	}
	if s.Reader == nil {
		return nil, errors.New("session has no reader")
	}
	if s.logger == nil {
		logger := logrus.New()
		logger.SetOutput(s.Stderr)
		logger.SetLevel(logrus.WarnLevel)
		s.logger = logger
	}
	s.Log = s.logger.WithField("session", s.ID.String())
	s.scope = NewScope(s.natives...)

	preludes := s.preludes
	if !s.noPrelude {
		preludes = append([]preludeSource{{PreludeName, Prelude}}, preludes...)
	}
	for _, p := range preludes {
		if _, err := s.Load(p.name, strings.NewReader(p.text)); err != nil {
			return nil, fmt.Errorf("prelude %s: %w", p.name, err)
		}
		s.Log.WithField("prelude", p.name).Debug("Loaded prelude")
	}
	return s, nil
}

// Scope returns the committed scope.
func (s *Session) Scope() *Scope {
	return s.scope
}

// Evaluator returns the evaluator used by the session.
func (s *Session) Evaluator() *Evaluator {
	return s.eval
}

// Read parses text with the session's Reader without evaluating it.
func (s *Session) Read(name string, text string) (*Expr, error) {
	return s.Reader.Read(name, strings.NewReader(text))
}

// EvalString reads text and evaluates each expression in it at the top
// level.  It returns the value of the last expression.
func (s *Session) EvalString(name string, text string) (Value, error) {
	return s.Load(name, strings.NewReader(text))
}

// Load reads the stream r and evaluates each expression in it at the top
// level.  It returns the value of the last expression.
func (s *Session) Load(name string, r io.Reader) (Value, error) {
	tree, err := s.Reader.Read(name, r)
	if err != nil {
		return Nil(), err
	}
	return s.EvalExpr(tree)
}

// LoadFile evaluates the contents of the file at path.
func (s *Session) LoadFile(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return Nil(), err
	}
	defer f.Close()
	return s.Load(filepath.Base(path), f)
}

// EvalExpr evaluates a root form returned by a Reader.  Expressions
// preceding a failing expression stay committed.
func (s *Session) EvalExpr(tree *Expr) (Value, error) {
	before := s.scope.Len()
	v, scope, err := s.eval.EvalProgram(tree, s.scope)
	s.scope = scope
	if err != nil {
		s.Log.WithError(err).Debug("Evaluation failed")
		return Nil(), err
	}
	s.Log.WithFields(logrus.Fields{
		"result":   v.GoString(),
		"bindings": scope.Len(),
		"added":    scope.Len() - before,
	}).Debug("Committed scope")
	return v, nil
}
