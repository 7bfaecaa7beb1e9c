// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package jobs_test

import (
	"context"
	"testing"

	"github.com/petenewcomb/jobs-go"
	"github.com/petenewcomb/jobs-go/internal/sim"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestBySimulation drives the scheduler with randomly generated
// dependency graphs and checks every run against the serial oracle:
// each node executes exactly once, and every dependency edge's
// ordering is respected in the recorded event sequence.
func TestBySimulation(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	s, err := jobs.New(4, jobs.WithPoolSize(256))
	chk.NoError(err)
	defer s.Shutdown()

	config := sim.DefaultConfig()
	if testing.Short() {
		config.MaxNodes /= 4
	}

	rapid.Check(t, func(t *rapid.T) {
		plan := sim.NewPlan(t, config)
		serialOrder := plan.SerialOrder()
		t.Logf("plan: %d nodes, %d edges", len(plan.Nodes), plan.EdgeCount())

		result := sim.Run(ctx, t, s, plan)
		result.Verify(t, plan, serialOrder)
	})
}
