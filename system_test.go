// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package jobs_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/petenewcomb/jobs-go"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidThreadCount(t *testing.T) {
	chk := require.New(t)
	_, err := jobs.New(-1)
	chk.ErrorIs(err, jobs.ErrInvalidThreadCount)
}

func TestNewInvalidOptions(t *testing.T) {
	chk := require.New(t)

	_, err := jobs.New(1, jobs.WithPoolSize(0))
	chk.ErrorIs(err, jobs.ErrInvalidPoolSize)

	_, err = jobs.New(1, jobs.WithQueueCapacity(0))
	chk.ErrorIs(err, jobs.ErrInvalidQueueCapacity)
}

func TestThreadCount(t *testing.T) {
	chk := require.New(t)

	s, err := jobs.New(3)
	chk.NoError(err)
	defer s.Shutdown()
	chk.Equal(3, s.ThreadCount())

	// Zero means one worker per available CPU.
	auto, err := jobs.New(0)
	chk.NoError(err)
	defer auto.Shutdown()
	chk.Greater(auto.ThreadCount(), 0)
}

func TestScheduleRunsExactlyOnce(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	s, err := jobs.New(4)
	chk.NoError(err)
	defer s.Shutdown()

	var runs atomic.Int32
	h := s.Schedule(func(arg any) {
		arg.(*atomic.Int32).Add(1)
	}, &runs)

	chk.NoError(s.Wait(ctx, h))
	chk.Equal(int32(1), runs.Load())
	chk.True(s.Complete(h))

	// Waiting again must not re-execute anything.
	chk.NoError(s.Wait(ctx, h))
	chk.Equal(int32(1), runs.Load())
}

// The concrete two-job scenario: A stores 1, B (depending on A) adds 1
// to whatever A stored.
func TestDependencyChainComputesTwo(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	s, err := jobs.New(2)
	chk.NoError(err)
	defer s.Shutdown()

	value := 0
	a := s.Schedule(func(arg any) {
		*arg.(*int) = 1
	}, &value)
	b := s.Schedule(func(arg any) {
		p := arg.(*int)
		*p = *p + 1
	}, &value, a)

	chk.NoError(s.Wait(ctx, b))
	chk.Equal(2, value)
}

func TestConcurrentScheduling(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	s, err := jobs.New(4)
	chk.NoError(err)
	defer s.Shutdown()

	const schedulers = 8
	const jobsPerScheduler = 200

	var runs atomic.Int64
	var wg sync.WaitGroup
	wg.Add(schedulers)
	for range schedulers {
		go func() {
			defer wg.Done()
			handles := make([]jobs.Handle, 0, jobsPerScheduler)
			for range jobsPerScheduler {
				handles = append(handles, s.Schedule(func(arg any) {
					arg.(*atomic.Int64).Add(1)
				}, &runs))
			}
			for _, h := range handles {
				if err := s.Wait(ctx, h); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()

	chk.Equal(int64(schedulers*jobsPerScheduler), runs.Load())
}

// A non-worker thread waiting on the last of a large batch must make
// progress by executing pending work itself, even with a single
// saturated worker.
func TestHelperThreadProgress(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	s, err := jobs.New(1)
	chk.NoError(err)
	defer s.Shutdown()

	const jobCount = 10000
	var runs atomic.Int64
	handles := make([]jobs.Handle, 0, jobCount)
	for range jobCount {
		handles = append(handles, s.Schedule(func(arg any) {
			arg.(*atomic.Int64).Add(1)
		}, &runs))
	}

	chk.NoError(s.Wait(ctx, handles[len(handles)-1]))

	for _, h := range handles {
		chk.NoError(s.Wait(ctx, h))
	}
	chk.Equal(int64(jobCount), runs.Load())
}

func TestWaitContextCanceled(t *testing.T) {
	chk := require.New(t)

	s, err := jobs.New(1)
	chk.NoError(err)
	defer s.Shutdown()

	release := make(chan struct{})
	h := s.Schedule(func(arg any) {
		<-arg.(chan struct{})
	}, release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chk.ErrorIs(s.Wait(ctx, h), context.Canceled)

	// Cancellation abandoned the wait, not the job.
	close(release)
	chk.NoError(s.Wait(context.Background(), h))
}

func TestShutdownIdempotent(t *testing.T) {
	chk := require.New(t)

	s, err := jobs.New(2)
	chk.NoError(err)

	var runs atomic.Int32
	h := s.Schedule(func(arg any) {
		arg.(*atomic.Int32).Add(1)
	}, &runs)
	chk.NoError(s.Wait(context.Background(), h))

	s.Shutdown()
	s.Shutdown()
	chk.Equal(int32(1), runs.Load())
}

// Scheduling far more jobs than the record pool holds forces the
// scheduling thread onto the cooperative path: it must execute pending
// work to free records rather than recycling live ones.
func TestSchedulePoolSaturation(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	s, err := jobs.New(2, jobs.WithPoolSize(4))
	chk.NoError(err)
	defer s.Shutdown()

	const jobCount = 500
	var runs atomic.Int64
	handles := make([]jobs.Handle, 0, jobCount)
	for range jobCount {
		handles = append(handles, s.Schedule(func(arg any) {
			arg.(*atomic.Int64).Add(1)
		}, &runs))
	}
	for _, h := range handles {
		chk.NoError(s.Wait(ctx, h))
	}
	chk.Equal(int64(jobCount), runs.Load())
}
