// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package jobs

type constError string

func (e constError) Error() string {
	return string(e)
}

const ErrInvalidThreadCount = constError("thread count must not be negative")
const ErrInvalidPoolSize = constError("pool size must be at least 1")
const ErrInvalidQueueCapacity = constError("queue capacity must be at least 1")
const ErrInvalidChunkSize = constError("chunk size must be at least 1")
