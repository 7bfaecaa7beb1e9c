// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package sim supports whole-system property testing of the job
// scheduler. It generates random dependency graphs with rapid, runs
// them on a real [jobs.System] while recording a global sequence of
// start and finish events, and checks the recording against a
// deterministic serial oracle: every node must run exactly once, and
// every edge's ordering must be respected.
package sim
