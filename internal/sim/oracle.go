// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sim

import (
	"cmp"

	"github.com/addrummond/heap"
)

type readyNode struct {
	id int
}

func (a *readyNode) Cmp(b *readyNode) int {
	return cmp.Compare(a.id, b.id)
}

// SerialOrder executes the plan on a serial oracle and returns the
// resulting node order. Among the nodes whose dependencies have all
// completed, the lowest ID always runs next; a min-heap keeps the
// ready set in that order no matter how nodes become ready. The result
// is one deterministic topological order of the plan, and producing
// all the nodes doubles as an acyclicity check.
//
// Panics if the plan contains a cycle, since no run of the real system
// could terminate on such a plan either.
func (p *Plan) SerialOrder() []int {
	dependents := make([][]int, len(p.Nodes))
	indegree := make([]int, len(p.Nodes))
	for i := range p.Nodes {
		for _, d := range p.Nodes[i].Deps {
			dependents[d] = append(dependents[d], i)
			indegree[i]++
		}
	}

	var ready heap.Heap[readyNode, heap.Min]
	for i := range p.Nodes {
		if indegree[i] == 0 {
			heap.PushOrderable(&ready, readyNode{id: i})
		}
	}

	order := make([]int, 0, len(p.Nodes))
	for {
		next, ok := heap.PopOrderable(&ready)
		if !ok {
			break
		}
		order = append(order, next.id)
		for _, d := range dependents[next.id] {
			indegree[d]--
			if indegree[d] == 0 {
				heap.PushOrderable(&ready, readyNode{id: d})
			}
		}
	}
	if len(order) != len(p.Nodes) {
		panic("sim: plan contains a dependency cycle")
	}
	return order
}
