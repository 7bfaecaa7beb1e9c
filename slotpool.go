// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package jobs

import "sync/atomic"

// slotPool is a fixed-capacity slab of job records. The slab is
// allocated once at construction and never resized, so *job pointers
// handed to the work queues stay valid for the life of the System.
//
// Allocation advances a monotonic cursor and claims the first slot
// whose previous occupant has completed. The pool therefore never
// recycles a record that is still in flight, no matter how far the
// cursor wraps; saturation surfaces as a failed allocation instead of
// silent reuse.
type slotPool struct {
	slots  []job
	cursor atomic.Uint32
}

func newSlotPool(capacity int) *slotPool {
	return &slotPool{slots: make([]job, capacity)}
}

// allocate claims a free slot and returns its record along with the
// Handle identifying the new occupancy. A slot is free only while its
// unfinished counter is zero, and the claim is a CAS on that counter,
// so concurrent allocators each end up with distinct slots.
//
// Returns nil and the zero Handle when every slot is in flight. The
// caller is expected to make forward progress (execute pending work)
// and retry.
func (p *slotPool) allocate() (*job, Handle) {
	n := uint32(len(p.slots))
	start := p.cursor.Add(1) - 1
	for i := range n {
		index := (start + i) % n
		j := &p.slots[index]
		if !j.unfinished.CompareAndSwap(0, 1) {
			continue
		}
		// Sole owner of the record until the counter drops back to 0.
		generation := j.reset()
		return j, Handle{slot: index + 1, generation: generation}
	}
	return nil, Handle{}
}

// lookup resolves a handle to its record, or nil when the handle is
// zero or out of range. Generation checking is the caller's concern.
func (p *slotPool) lookup(h Handle) *job {
	if h.slot == 0 || int(h.slot) > len(p.slots) {
		return nil
	}
	return &p.slots[h.slot-1]
}

func (p *slotPool) capacity() int {
	return len(p.slots)
}
