// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package jobs

import (
	"sync"
	"sync/atomic"
)

// A job is one pooled record describing a scheduled unit of work.
// Records are recycled: claiming one bumps its generation so that
// stale [Handle] values held by callers become inert instead of
// dangling.
//
// The unfinished counter doubles as the record's lifecycle:
//
//   - 0: the slot is free (its previous occupant completed)
//   - claimed by a 0 -> 1 CAS in slotPool.allocate
//   - raised by one per declared dependency, before any is registered
//   - lowered by one when a dependency completes, or immediately by
//     the scheduler when a dependency turns out to be already complete
//   - lowered by one after the job's own function returns, which is
//     always the transition to 0
//
// A job becomes runnable when the counter reaches 1 (only its own
// execution outstanding) and complete when it reaches 0. The counter
// never goes negative and reaches 0 exactly once per generation.
type job struct {
	fn  Func
	arg any

	unfinished atomic.Int32
	generation atomic.Uint32

	// mu serializes dependent registration against the completion
	// path's collection of dependents, so a dependency that finishes
	// while a dependent is being attached can neither miss the
	// notification nor deliver it twice.
	mu         sync.Mutex
	done       bool
	dependents []*job
}

// addDependent registers d to be notified when j completes. generation
// is the dependency handle's generation: if it no longer matches, or j
// has already run, registration is declined and the caller settles d's
// counter itself.
func (j *job) addDependent(d *job, generation uint32) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.done || j.generation.Load() != generation {
		return false
	}
	j.dependents = append(j.dependents, d)
	return true
}

// takeDependents marks j done and returns every dependent registered
// so far. Registration attempts from this point on are declined.
func (j *job) takeDependents() []*job {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.done = true
	deps := j.dependents
	j.dependents = nil
	return deps
}

// reset prepares a freshly claimed record for its next occupant and
// returns the new generation. The caller must hold the slot's claim
// (unfinished CAS'd from 0 to 1).
func (j *job) reset() uint32 {
	generation := j.generation.Add(1)
	j.mu.Lock()
	j.done = false
	j.dependents = nil
	j.mu.Unlock()
	j.fn = nil
	j.arg = nil
	return generation
}

func (j *job) complete() bool {
	return j.unfinished.Load() == 0
}
