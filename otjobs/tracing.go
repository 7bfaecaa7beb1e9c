// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package otjobs provides OpenTelemetry and zap integration for the
// jobs work-stealing job system. Job functions carry no context of
// their own (the scheduler hands them only an opaque argument), so
// these wrappers capture the scheduling-time trace context and
// re-establish it around each execution, letting spans created on
// worker threads parent correctly under the span that scheduled the
// work.
package otjobs

import (
	"context"

	"github.com/petenewcomb/jobs-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracedFunc wraps a job function in a span with the given operation
// name. The parent span context is captured from ctx when the wrapper
// is created, i.e. at scheduling time; each execution of the returned
// function starts a child span under it, regardless of which worker
// thread runs the job.
func TracedFunc(ctx context.Context, operationName string, fn jobs.Func) jobs.Func {
	// Capture the scheduling-time trace context for propagation onto
	// the worker thread.
	parent := trace.SpanFromContext(ctx).SpanContext()

	return func(arg any) {
		execCtx := context.Background()
		if parent.IsValid() {
			execCtx = trace.ContextWithRemoteSpanContext(execCtx, parent)
		}

		tracer := otel.Tracer("otjobs")
		_, span := tracer.Start(execCtx, operationName)
		defer span.End()

		fn(arg)
	}
}
