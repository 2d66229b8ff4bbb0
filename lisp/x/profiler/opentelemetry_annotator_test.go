// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/lisp/x/profiler"
	"github.com/luthersystems/minilisp/lisptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const testLisp = `
(define (add-it x y) (+ x y))
(define (recurse-it x)
  (if (< x 4)
      (recurse-it (+ x 1))
      (add-it x 3)))
(add-it (add-it 3 (recurse-it 2)) 8)
`

func newInMemoryProvider(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := newInMemoryProvider(t)

	ppa := profiler.NewOpenTelemetryAnnotator(context.Background())
	require.NoError(t, ppa.Enable())
	assert.Error(t, ppa.Enable())
	s := lisptest.NewSession(t, lisp.WithProfiler(ppa))
	v, err := s.EvalString("test.lisp", testLisp)
	require.NoError(t, err)
	assert.Equal(t, "Int(18)", v.GoString())
	assert.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	assert.GreaterOrEqual(t, len(spans), 3, "Expected at least three spans")
	var names []string
	for _, span := range spans {
		names = append(names, span.Name)
	}
	assert.Contains(t, names, "add-it")
	assert.Contains(t, names, "recurse-it")
	assert.Contains(t, names, "+")
}

func TestNewOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := newInMemoryProvider(t)

	ppa := profiler.NewOpenTelemetryAnnotator(context.Background(),
		profiler.WithLambdasOnly(),
		profiler.WithKindLabeler())
	require.NoError(t, ppa.Enable())
	s := lisptest.NewSession(t, lisp.WithProfiler(ppa))
	v, err := s.EvalString("test.lisp", `(define (inc x) (+ x 1)) (define (twice x) (inc (inc x))) (twice 1)`)
	require.NoError(t, err)
	assert.Equal(t, "Int(3)", v.GoString())
	assert.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	require.Equal(t, 3, len(spans), "Expected selective spans")
	// inner applications end first
	assert.Equal(t, "lambda:inc", spans[0].Name, "Expected custom label")
	assert.Equal(t, "lambda:inc", spans[1].Name, "Expected custom label")
	assert.Equal(t, "lambda:twice", spans[2].Name, "Expected custom label")
	assert.Equal(t, spans[2].SpanContext.SpanID(), spans[0].Parent.SpanID(), "Expected nested span")
	assert.Equal(t, spans[2].SpanContext.SpanID(), spans[1].Parent.SpanID(), "Expected nested span")

	var sawLine bool
	for _, kv := range spans[2].Attributes {
		if kv.Key == "code.lineno" {
			sawLine = true
			assert.EqualValues(t, 1, kv.Value.AsInt64())
		}
	}
	assert.True(t, sawLine, "Expected source attributes")
}

func TestOpenTelemetryAnnotatorDisabled(t *testing.T) {
	exporter := newInMemoryProvider(t)

	ppa := profiler.NewOpenTelemetryAnnotator(context.Background())
	s := lisptest.NewSession(t, lisp.WithProfiler(ppa))
	_, err := s.EvalString("test.lisp", `(+ 1 2)`)
	require.NoError(t, err)
	assert.Empty(t, exporter.GetSpans())
}

func TestOpenTelemetryAnnotatorNilContext(t *testing.T) {
	//nolint:staticcheck
	ppa := profiler.NewOpenTelemetryAnnotator(nil)
	assert.Error(t, ppa.Enable())
}
