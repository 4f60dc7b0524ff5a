// Package entity issues the identifiers shared by every simulated entity.
// Posts and voters draw from the same counter, so an ID is unique across kinds.
package entity

import "sync/atomic"

// ID uniquely identifies a post or a voter within one process.
type ID uint64

// Allocator hands out strictly increasing IDs. The zero value is ready to
// use and issues 1 first. It is safe for concurrent use, so a single
// allocator can back several independent runs.
type Allocator struct {
	last atomic.Uint64
}

// NewAllocator returns an allocator whose first issued ID is start.
func NewAllocator(start ID) *Allocator {
	a := &Allocator{}
	if start > 0 {
		a.last.Store(uint64(start) - 1)
	}
	return a
}

// Next returns a fresh ID. IDs are never reused.
func (a *Allocator) Next() ID {
	return ID(a.last.Add(1))
}

// Issued returns the highest ID handed out so far.
func (a *Allocator) Issued() ID {
	return ID(a.last.Load())
}
