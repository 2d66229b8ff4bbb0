// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/lisp/x/profiler"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// startTracing creates the profiler selected by the trace setting.  Spans
// are written to w.  The returned function flushes them and must be called
// before exit.  The profiler is nil when tracing is off.
func startTracing(ctx context.Context, w io.Writer) (lisp.Profiler, func(), error) {
	var (
		p    lisp.Profiler
		stop func()
	)
	switch mode := viper.GetString("trace"); mode {
	case "":
		return nil, func() {}, nil
	case "otel":
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, nil, err
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		otel.SetTracerProvider(tp)
		ctx = context.WithValue(ctx, profiler.ContextOpenTelemetryTracerKey, "minilisp") //nolint:staticcheck // key shared with embedders
		p = profiler.NewOpenTelemetryAnnotator(ctx)
		stop = func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logrus.WithError(err).Warn("Trace shutdown failed")
			}
		}
	case "opencensus":
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
		exporter := newSpanLogger(w)
		trace.RegisterExporter(exporter)
		p = profiler.NewOpenCensusAnnotator(ctx)
		stop = func() { trace.UnregisterExporter(exporter) }
	default:
		return nil, nil, fmt.Errorf("unknown trace mode: %q", mode)
	}
	if err := p.Enable(); err != nil {
		return nil, nil, err
	}
	return p, func() {
		if err := p.Complete(); err != nil {
			logrus.WithError(err).Warn("Profiler completion failed")
		}
		stop()
	}, nil
}

// spanLogger exports OpenCensus spans as log entries.
type spanLogger struct {
	log *logrus.Logger
}

func newSpanLogger(w io.Writer) *spanLogger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.JSONFormatter{})
	return &spanLogger{log: log}
}

func (e *spanLogger) ExportSpan(sd *trace.SpanData) {
	fields := logrus.Fields{
		"trace_id":  sd.TraceID.String(),
		"span_id":   sd.SpanID.String(),
		"parent_id": sd.ParentSpanID.String(),
		"duration":  sd.EndTime.Sub(sd.StartTime).Round(time.Microsecond).String(),
	}
	for k, v := range sd.Attributes {
		fields[k] = v
	}
	for _, a := range sd.Annotations {
		for k, v := range a.Attributes {
			fields[a.Message+"."+k] = v
		}
	}
	e.log.WithFields(fields).Info(sd.Name)
}
