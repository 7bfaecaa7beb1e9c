// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sim

import (
	"context"
	"sync/atomic"

	"github.com/petenewcomb/jobs-go"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// A Result records one run of a plan on the real scheduler. Starts and
// Finishes hold per-node positions in a single global event sequence
// (zero meaning the node never ran); Runs counts executions per node.
type Result struct {
	Starts   []atomic.Int64
	Finishes []atomic.Int64
	Runs     []atomic.Int64
}

// Run schedules every node of the plan on the given system, nodes in
// ID order with their declared dependencies, then waits for all of
// them. Each node's job body just stamps its position in the global
// event sequence.
func Run(ctx context.Context, t *rapid.T, system *jobs.System, plan *Plan) *Result {
	chk := require.New(t)

	result := &Result{
		Starts:   make([]atomic.Int64, len(plan.Nodes)),
		Finishes: make([]atomic.Int64, len(plan.Nodes)),
		Runs:     make([]atomic.Int64, len(plan.Nodes)),
	}

	var sequence atomic.Int64
	handles := make([]jobs.Handle, len(plan.Nodes))
	for i := range plan.Nodes {
		deps := make([]jobs.Handle, len(plan.Nodes[i].Deps))
		for k, d := range plan.Nodes[i].Deps {
			deps[k] = handles[d]
		}
		handles[i] = system.Schedule(func(arg any) {
			n := arg.(int)
			result.Starts[n].Store(sequence.Add(1))
			result.Runs[n].Add(1)
			result.Finishes[n].Store(sequence.Add(1))
		}, i, deps...)
	}

	for _, h := range handles {
		chk.NoError(system.Wait(ctx, h))
	}
	return result
}

// Verify checks the recording against the plan: every node ran exactly
// once, and for every edge the dependency finished before the
// dependent started. serialOrder is the oracle's order for the same
// plan; it covering every node confirms the plan the system just ran
// was executable at all.
func (r *Result) Verify(t *rapid.T, plan *Plan, serialOrder []int) {
	chk := require.New(t)
	chk.Len(serialOrder, len(plan.Nodes))

	for i := range plan.Nodes {
		chk.Equal(int64(1), r.Runs[i].Load(), "node %d run count", i)
		chk.Less(r.Starts[i].Load(), r.Finishes[i].Load(), "node %d event order", i)
	}
	for i := range plan.Nodes {
		for _, d := range plan.Nodes[i].Deps {
			chk.Less(r.Finishes[d].Load(), r.Starts[i].Load(),
				"dependency %d must finish before node %d starts", d, i)
		}
	}
}
