// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otjobs

import (
	"time"

	"github.com/petenewcomb/jobs-go"
	"go.uber.org/zap"
)

// LoggedFunc adds structured logging to a job function.
// This wrapper logs the start and completion of job execution,
// including timing information.
func LoggedFunc(operationName string, fn jobs.Func) jobs.Func {
	return func(arg any) {
		// Use the process-global logger; job functions carry no
		// context through which to thread one.
		logger := zap.L()

		logger.Debug("Starting job",
			zap.String("operation", operationName),
			zap.String("component", "otjobs"))

		// Time the operation
		startTime := time.Now()
		fn(arg)
		duration := time.Since(startTime)

		logger.Debug("Job completed",
			zap.String("operation", operationName),
			zap.String("component", "otjobs"),
			zap.Duration("duration", duration))
	}
}
