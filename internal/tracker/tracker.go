// Package tracker records which file offsets a root walk has visited.
package tracker

import "slices"

// Set is an immutable-by-convention set of offsets.
type Set map[uint64]struct{}

// Contains reports whether offset is in the set.
func (s Set) Contains(offset uint64) bool {
	_, ok := s[offset]
	return ok
}

// Sorted returns the offsets in ascending order.
func (s Set) Sorted() []uint64 {
	out := make([]uint64, 0, len(s))
	for off := range s {
		out = append(out, off)
	}
	slices.Sort(out)

	return out
}

// Tracker records visited offsets for one walk.
//
// Note: Tracker is NOT thread-safe; each walk owns its own.
type Tracker struct {
	seen Set
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{seen: make(Set)}
}

// Visit records offset. Repeat visits are ignored.
func (t *Tracker) Visit(offset uint64) {
	t.seen[offset] = struct{}{}
}

// Contains reports whether offset was visited.
func (t *Tracker) Contains(offset uint64) bool {
	return t.seen.Contains(offset)
}

// Len returns the number of distinct visited offsets.
func (t *Tracker) Len() int {
	return len(t.seen)
}

// Offsets returns the visited offsets in ascending order.
func (t *Tracker) Offsets() []uint64 {
	return t.seen.Sorted()
}

// Set returns the membership set. Callers must not modify it.
func (t *Tracker) Set() Set {
	return t.seen
}

// Union merges the offsets of all trackers into a new set. Nil trackers are skipped.
func Union(trackers ...*Tracker) Set {
	size := 0
	for _, t := range trackers {
		if t != nil {
			size += t.Len()
		}
	}

	out := make(Set, size)
	for _, t := range trackers {
		if t == nil {
			continue
		}
		for off := range t.seen {
			out[off] = struct{}{}
		}
	}

	return out
}
