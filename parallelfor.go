// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package jobs

import "context"

// ParallelFor invokes fn exactly once for every index in the half-open
// range [begin, end), splitting the range into consecutive chunks of
// chunkSize indices (the last chunk may be shorter) and scheduling one
// job per chunk. Chunks carry no inter-chunk dependencies and may run
// in any order, including concurrently; fn must therefore be free of
// data races across indices.
//
// The calling thread helps execute chunks while it waits, so
// ParallelFor is safe to call from the main thread, worker threads,
// and running job functions alike. It returns once every index has
// been processed. An empty range is a no-op.
//
// Cancelling ctx abandons the wait and returns ctx's error;
// already-scheduled chunks still run eventually.
func (s *System) ParallelFor(ctx context.Context, begin, end, chunkSize int, fn func(i int)) error {
	if begin >= end {
		return nil
	}
	if chunkSize < 1 {
		return ErrInvalidChunkSize
	}

	type chunk struct {
		begin, end int
		fn         func(i int)
	}
	run := func(arg any) {
		c := arg.(*chunk)
		for i := c.begin; i < c.end; i++ {
			c.fn(i)
		}
	}

	// One backing slice for all chunk descriptors keeps the argument
	// pointers stable while jobs are in flight.
	n := (end - begin + chunkSize - 1) / chunkSize
	chunks := make([]chunk, 0, n)
	for lo := begin; lo < end; lo += chunkSize {
		chunks = append(chunks, chunk{begin: lo, end: min(lo+chunkSize, end), fn: fn})
	}

	handles := make([]Handle, len(chunks))
	for i := range chunks {
		handles[i] = s.Schedule(run, &chunks[i])
	}
	for _, h := range handles {
		if err := s.Wait(ctx, h); err != nil {
			return err
		}
	}
	return nil
}
