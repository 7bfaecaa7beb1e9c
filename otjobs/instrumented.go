// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otjobs

import (
	"context"

	"github.com/petenewcomb/jobs-go"
)

// InstrumentedFunc combines tracing, metrics, and logging for job
// functions into a single wrapper. This provides a convenient way to
// apply all instrumentation at once.
func InstrumentedFunc(ctx context.Context, operationName string, fn jobs.Func) jobs.Func {
	// Apply wrappers inside-out:
	// 1. First add logging
	loggedFn := LoggedFunc(operationName, fn)

	// 2. Then add metrics
	metricsFn := MetricsFunc(operationName, loggedFn)

	// 3. Finally add tracing (which re-establishes the scheduling-time
	// trace context on the worker thread)
	return TracedFunc(ctx, operationName, metricsFn)
}
