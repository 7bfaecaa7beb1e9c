// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package jobs

// A Handle identifies one scheduled job instance. Handles are small
// value types: they may be freely copied, compared with ==, and held
// long after the job has completed. The generation field distinguishes
// the identified instance from any later job that reuses the same pool
// slot, so a stale handle degrades to "already complete" rather than
// referring to unrelated work.
//
// The zero Handle is invalid and is treated as already complete by
// [System.Wait] and [System.Complete].
type Handle struct {
	slot       uint32 // 1-based pool index; 0 means invalid
	generation uint32
}

// IsValid reports whether h refers to a job instance at all. It does
// not check whether that instance is still live: a valid handle may be
// stale if its slot has since been recycled.
func (h Handle) IsValid() bool {
	return h.slot != 0
}
