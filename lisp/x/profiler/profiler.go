// Copyright © 2018 The ELPS authors

// Package profiler provides lisp.Profiler implementations which report
// procedure application to tracing systems.
package profiler

import (
	"fmt"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/token"
)

// profiler is a minimal lisp.Profiler
type profiler struct {
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) Start(name string, kind lisp.ProcKind, src *token.Location) func() {
	return func() {}
}

// prettyFunName returns the label to use for a procedure.  Without a
// FunLabeler, or when the labeler returns the empty string, the label is the
// procedure name.
func (p *profiler) prettyFunName(name string, kind lisp.ProcKind) string {
	if p.funLabeler == nil {
		return name
	}
	if label := sanitizeLabel(p.funLabeler(name, kind)); label != "" {
		return label
	}
	return name
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(name string, kind lisp.ProcKind) bool {
	return !p.enabled || p.skipFilter != nil && p.skipFilter(name, kind)
}

// sourceLocation returns src unless it refers to no source text.
func sourceLocation(src *token.Location) *token.Location {
	if src == nil || src.Pos < 0 {
		return nil
	}
	return src
}
