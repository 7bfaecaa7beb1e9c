// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otjobs

import (
	"context"
	"time"

	"github.com/petenewcomb/jobs-go"
	"go.opentelemetry.io/otel"
)

// MetricsFunc adds metrics collection to a job function.
// This wrapper records count and duration metrics for job execution.
func MetricsFunc(metricName string, fn jobs.Func) jobs.Func {
	return func(arg any) {
		startTime := time.Now()
		meter := otel.GetMeterProvider().Meter("otjobs")

		// Create metrics
		jobCounter, _ := meter.Int64Counter(metricName + ".count")
		jobDuration, _ := meter.Float64Histogram(metricName + ".duration")

		// Track execution
		ctx := context.Background()
		jobCounter.Add(ctx, 1)

		// Execute job
		fn(arg)

		// Record duration
		duration := time.Since(startTime).Seconds()
		jobDuration.Record(ctx, duration)
	}
}
