// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sim

import (
	"fmt"

	"pgregory.net/rapid"
)

// A Plan is a randomly generated job dependency graph. Nodes are
// numbered in creation order and every dependency edge points at an
// earlier node, so a Plan is acyclic by construction — the same
// property the scheduler demands of its callers.
type Plan struct {
	Nodes []Node
}

// A Node is one job in the plan. Deps holds indices of earlier nodes
// this one depends on.
type Node struct {
	ID   int
	Deps []int
}

// Config bounds plan generation.
type Config struct {
	MaxNodes int
	MaxDeps  int
}

func DefaultConfig() *Config {
	return &Config{
		MaxNodes: 64,
		MaxDeps:  4,
	}
}

// NewPlan draws a random acyclic dependency graph for testing.
func NewPlan(t *rapid.T, config *Config) *Plan {
	nodeCount := rapid.IntRange(1, config.MaxNodes).Draw(t, "nodeCount")
	plan := &Plan{Nodes: make([]Node, nodeCount)}
	for i := range plan.Nodes {
		node := &plan.Nodes[i]
		node.ID = i
		if i == 0 {
			continue
		}
		nodeName := fmt.Sprintf("Node#%d", i)
		depCount := rapid.IntRange(0, min(i, config.MaxDeps)).Draw(t, nodeName+".DepCount")
		seen := make(map[int]bool, depCount)
		for range depCount {
			dep := rapid.IntRange(0, i-1).Draw(t, nodeName+".Dep")
			if seen[dep] {
				continue
			}
			seen[dep] = true
			node.Deps = append(node.Deps, dep)
		}
	}
	return plan
}

// EdgeCount returns the total number of dependency edges in the plan.
func (p *Plan) EdgeCount() int {
	n := 0
	for i := range p.Nodes {
		n += len(p.Nodes[i].Deps)
	}
	return n
}
