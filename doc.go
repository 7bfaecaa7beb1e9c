// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package jobs provides a work-stealing job system: a fixed pool of
// worker threads that execute small, independent units of work
// ("jobs") from per-worker double-ended queues, stealing from each
// other when their own queues run dry.
//
// Jobs may declare dependencies on previously scheduled jobs, forming
// a caller-constructed directed acyclic graph. A job with declared
// dependencies begins execution only after every dependency (and
// transitively everything those depend on) has completed.
//
// Waiting is cooperative: a thread blocked in [System.Wait] or
// [System.ParallelFor] executes other pending jobs rather than
// sleeping on a primitive, so every waiter adds execution capacity.
// This is the system's deadlock-avoidance strategy, and it also means
// the calling thread is always a productive participant.
//
// Job records live in a fixed-capacity pool and are recycled after
// completion. [Handle] values carry a per-slot generation counter, so
// a handle held past its job's completion stays safe: once the slot is
// reused, the stale handle is simply treated as already complete.
package jobs
