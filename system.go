// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package jobs

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Func is the body of a job: a function taking one opaque argument.
// The argument is supplied by the caller at scheduling time, is never
// touched by the scheduler, and must outlive the job's execution. If
// it is shared across concurrently running jobs it must be read-only
// or independently synchronized; the scheduler provides no implicit
// protection for job bodies.
type Func = func(arg any)

const (
	defaultPoolSize     = 4096
	defaultQueueNominal = 512

	// idleInterval is how long a thread sleeps when neither its own
	// queue nor any peer has work. A short fixed sleep trades a little
	// wakeup latency for not burning a core while idle.
	idleInterval = 100 * time.Microsecond
)

// A System owns a set of worker threads, one work-stealing queue per
// worker, and a fixed pool of recyclable job records. Create one with
// [New] and release it with [System.Shutdown].
//
// All methods are safe for concurrent use from any goroutine,
// including from within running job functions.
type System struct {
	pool      *slotPool
	queues    []*workQueue
	logger    *zap.Logger
	nextQueue atomic.Uint32
	shutdown  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	// construction-time settings, fixed before workers start
	poolSize     int
	queueNominal int
}

// An Option adjusts System construction. Options are applied in order
// by [New] before any worker thread starts.
type Option func(*System) error

// WithLogger directs the System's diagnostics (lifecycle events, queue
// growth warnings) to the given logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *System) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// WithPoolSize overrides the capacity of the job record pool. The pool
// bounds how many jobs may be in flight at once; past that, scheduling
// threads help execute pending work until a record frees up. The
// default is 4096.
func WithPoolSize(n int) Option {
	return func(s *System) error {
		if n < 1 {
			return ErrInvalidPoolSize
		}
		s.poolSize = n
		return nil
	}
}

// WithQueueCapacity overrides the nominal per-worker queue capacity.
// Queues grow past this freely; crossing it only emits a warning, as a
// signal that jobs are being scheduled much faster than they are
// executed. The default is 512.
func WithQueueCapacity(n int) Option {
	return func(s *System) error {
		if n < 1 {
			return ErrInvalidQueueCapacity
		}
		s.queueNominal = n
		return nil
	}
}

// New creates a job system with the given number of worker threads and
// starts them. threadCount == 0 means one worker per available CPU.
//
// Each call to New should typically be paired with a deferred call to
// [System.Shutdown].
func New(threadCount int, opts ...Option) (*System, error) {
	if threadCount < 0 {
		return nil, ErrInvalidThreadCount
	}
	if threadCount == 0 {
		threadCount = runtime.GOMAXPROCS(0)
	}

	s := &System{
		logger:       zap.NewNop(),
		shutdown:     make(chan struct{}),
		poolSize:     defaultPoolSize,
		queueNominal: defaultQueueNominal,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.pool = newSlotPool(s.poolSize)
	s.queues = make([]*workQueue, threadCount)
	for i := range s.queues {
		s.queues[i] = &workQueue{nominal: s.queueNominal}
	}

	s.wg.Add(threadCount)
	for i := range threadCount {
		go s.workerMain(i)
	}
	s.logger.Info("job system started",
		zap.Int("workers", threadCount),
		zap.Int("poolSize", s.poolSize))
	return s, nil
}

// ThreadCount returns the number of worker threads owned by the
// system. Threads that participate transiently through [System.Wait]
// or [System.ParallelFor] are not counted.
func (s *System) ThreadCount() int {
	return len(s.queues)
}

// Shutdown signals the worker threads to stop and waits for them to
// exit. Jobs still queued at that point are abandoned rather than
// drained: callers must Wait on every handle whose effects they need
// before shutting down. Shutdown is idempotent and safe to call
// concurrently.
func (s *System) Shutdown() {
	s.closeOnce.Do(func() {
		close(s.shutdown)
		s.wg.Wait()
		s.logger.Info("job system stopped")
	})
}

// Schedule registers fn for asynchronous execution with the given
// argument and returns a handle that can be passed to [System.Wait] or
// used as a dependency of later jobs. The job will not begin executing
// until every job named in deps has completed; deps that are zero or
// stale handles are treated as already satisfied.
//
// Schedule never blocks on queue space. Only when the record pool is
// fully saturated does it execute pending work from the calling thread
// until a record frees up, the same forward-progress strategy Wait
// uses.
//
// The dependency graph is caller-constructed and must be acyclic;
// cycles are a caller error and are not detected.
func (s *System) Schedule(fn Func, arg any, deps ...Handle) Handle {
	j, h := s.pool.allocate()
	for j == nil {
		// Every record is in flight. Make room the way Wait makes
		// progress: run someone else's work on this thread.
		if w := s.takeAny(); w != nil {
			s.execute(w)
		} else {
			runtime.Gosched()
		}
		j, h = s.pool.allocate()
	}

	j.fn = fn
	j.arg = arg

	if len(deps) == 0 {
		s.enqueue(j)
		return h
	}

	// The counter owes one decrement per declared dependency on top of
	// the one for the job's own execution. Raising it for all
	// dependencies before registering any means a dependency that
	// completes while this loop is still running cannot make the job
	// runnable early.
	j.unfinished.Add(int32(len(deps)))
	for _, dh := range deps {
		dep := s.pool.lookup(dh)
		if dep == nil || !dep.addDependent(j, dh.generation) {
			// Already complete, recycled, or never valid: settle the
			// obligation ourselves. Whoever settles the last one
			// enqueues the job, which may well be this thread.
			s.resolveDependency(j)
		}
	}
	return h
}

// Wait blocks until the job identified by h, and transitively
// everything it depends on, has completed. The calling thread executes
// other pending jobs while it waits instead of sleeping on a
// primitive, so any waiter contributes capacity; it degrades to short
// sleeps only when no work is available anywhere.
//
// A zero or stale handle is treated as already complete and returns
// immediately. Cancelling ctx abandons the wait and returns ctx's
// error; it never cancels the job itself.
func (s *System) Wait(ctx context.Context, h Handle) error {
	for !s.Complete(h) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if j := s.takeAny(); j != nil {
			s.execute(j)
		} else {
			// Nothing to help with anywhere; the target must be
			// executing on, or gated behind work held by, another
			// thread.
			time.Sleep(idleInterval)
		}
	}
	return nil
}

// Complete reports whether the job identified by h has finished, i.e.
// its function and its whole dependency closure have run. Zero and
// stale handles report true.
func (s *System) Complete(h Handle) bool {
	j := s.pool.lookup(h)
	if j == nil {
		return true
	}
	if j.generation.Load() != h.generation {
		// Slot recycled, so the identified instance finished already.
		return true
	}
	return j.complete()
}

// enqueue pushes a runnable job onto the next queue in round-robin
// order. Queues grow as needed, so enqueue cannot fail; outgrowing the
// nominal capacity is only worth a warning.
func (s *System) enqueue(j *job) {
	index := int(s.nextQueue.Add(1)-1) % len(s.queues)
	if s.queues[index].pushBack(j) {
		s.logger.Warn("work queue overgrown",
			zap.Int("queue", index),
			zap.Int("nominal", s.queueNominal))
	}
}

// execute runs j's function and then applies the completion protocol:
// dependents are collected and notified first, and only then is the
// final decrement published. Publishing completion last means the
// record cannot be recycled while this thread is still reading it.
func (s *System) execute(j *job) {
	if fn := j.fn; fn != nil {
		fn(j.arg)
	}
	for _, d := range j.takeDependents() {
		s.resolveDependency(d)
	}
	if j.unfinished.Add(-1) != 0 {
		// Execution is always the last outstanding obligation, since
		// all dependencies settle before a job is ever enqueued.
		panic("jobs: unfinished count not zero after execution")
	}
}

// resolveDependency settles one completed (or already-satisfied)
// dependency of d. When the only remaining obligation is d's own
// execution, d becomes runnable and is enqueued.
func (s *System) resolveDependency(d *job) {
	if d.unfinished.Add(-1) == 1 {
		s.enqueue(d)
	}
}

// workerMain is the top-level loop of one worker thread: drain the
// local queue, then sweep the peers for work to steal, then idle
// briefly. The shutdown check sits at the top of every iteration;
// remaining queued jobs are deliberately not drained on the way out.
func (s *System) workerMain(index int) {
	defer s.wg.Done()
	rng := rand.New(rand.NewPCG(rand.Uint64(), uint64(index)))
	s.logger.Debug("worker started", zap.Int("worker", index))
	for {
		select {
		case <-s.shutdown:
			s.logger.Debug("worker stopped", zap.Int("worker", index))
			return
		default:
		}

		j := s.queues[index].popBack()
		if j == nil {
			j = s.stealFrom(rng, index)
		}
		if j != nil {
			s.execute(j)
			continue
		}
		time.Sleep(idleInterval)
	}
}

// stealFrom sweeps the other workers' queues from a random starting
// point, taking from the front where the oldest and most likely
// independent work sits. Returns nil after a full unsuccessful sweep.
func (s *System) stealFrom(rng *rand.Rand, self int) *job {
	n := len(s.queues)
	offset := rng.IntN(n)
	for i := range n {
		victim := (offset + i) % n
		if victim == self {
			continue
		}
		if j := s.queues[victim].popFront(); j != nil {
			return j
		}
	}
	return nil
}

// takeAny takes one pending job from any queue, preferring the
// freshest work. Used by helping threads (Wait, ParallelFor, and a
// saturated Schedule) rather than by the worker loop.
func (s *System) takeAny() *job {
	n := len(s.queues)
	offset := rand.IntN(n)
	for i := range n {
		if j := s.queues[(offset+i)%n].popBack(); j != nil {
			return j
		}
	}
	return nil
}
