// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package jobs

import (
	"sync"

	"github.com/gammazero/deque"
)

// A workQueue holds pending jobs for one worker. The owner treats the
// back as a stack, keeping recently pushed work hot in cache; thieves
// take from the front, where the oldest work sits and is least likely
// to contend with whatever the owner is doing. A single mutex guards
// the deque, which keeps operations trivially correct and limits
// contention to steal attempts.
//
// The deque grows as needed, so a push can never fail and work is
// never dropped. nominal is a soft budget used purely for diagnostics:
// pushBack reports when the queue has outgrown it so the System can
// log the condition.
type workQueue struct {
	mu      sync.Mutex
	jobs    deque.Deque[*job]
	nominal int
}

// pushBack appends j and reports whether the queue length now exceeds
// its nominal capacity.
func (q *workQueue) pushBack(j *job) (overgrown bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs.PushBack(j)
	return q.jobs.Len() > q.nominal
}

// popBack removes and returns the most recently pushed job, or nil if
// the queue is empty. Used by the owning worker and by helping threads
// that prefer fresh work.
func (q *workQueue) popBack() *job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.jobs.Len() == 0 {
		return nil
	}
	return q.jobs.PopBack()
}

// popFront removes and returns the oldest job, or nil if the queue is
// empty. Used only by stealing workers.
func (q *workQueue) popFront() *job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.jobs.Len() == 0 {
		return nil
	}
	return q.jobs.PopFront()
}

func (q *workQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.jobs.Len()
}
