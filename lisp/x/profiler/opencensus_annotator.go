// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/golang-collections/collections/stack"
	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/token"
	"go.opencensus.io/trace"
)

var _ lisp.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       *stack.Stack
}

// NewOpenCensusAnnotator returns a lisp.Profiler which starts an OpenCensus
// span for each procedure application.
func NewOpenCensusAnnotator(parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		currentContext: parentContext,
		contexts:       stack.New(),
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(name string, kind lisp.ProcKind, src *token.Location) func() {
	if p.skipTrace(name, kind) {
		return func() {}
	}
	p.contexts.Push(p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, p.prettyFunName(name, kind))
	p.currentSpan.AddAttributes(
		trace.StringAttribute("code.function", name),
		trace.StringAttribute("code.namespace", kind.String()),
	)
	return func() {
		if loc := sourceLocation(src); loc != nil {
			p.currentSpan.Annotate([]trace.Attribute{
				trace.StringAttribute("file", loc.File),
				trace.Int64Attribute("line", int64(loc.Line)),
			}, "source")
		}
		p.currentSpan.End()
		// And pop the current context back
		p.currentContext = p.contexts.Pop().(context.Context)
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
