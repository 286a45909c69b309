// Package pool provides the variable-length memory pool backing the
// peloton value layer. The pool hands out reference-counted byte slices
// carved from fixed-capacity slabs, so that shallow tuple copies are a
// single atomic increment instead of a data copy.
//
// The package provides:
//   - Buffer, a slab of equal-sized blocks with an occupancy bitmap
//   - VarlenPool, a segregated free-list allocator built from Buffers
//   - Reference counting embedded in the allocation itself
//   - Reclamation of surplus empty slabs, bounded by a retention watermark
//
// # Allocation layout
//
// Every allocated block embeds an 8-byte atomic reference count
// immediately before the payload returned to the caller:
//
//	+--------------------+---------+
//	| 8 byte ref count   | payload |
//	+--------------------+---------+
//	                     ^
//	                     returned slice starts here
//
// The payload address is always 8-byte aligned. A payload's lifetime is
// governed by its reference count: Allocate creates it at 1, AddRef
// increments it, and Free decrements it, returning the block to its slab
// when the count reaches zero.
//
// # Concurrency
//
// Each free list is guarded by its own mutex; critical sections are short
// bitmap scans. Reference counts are updated with atomic operations and
// never take a list lock, so copy-heavy tuple paths stay off the
// allocator entirely. The pool-wide size budget is an atomic counter
// checked outside the list locks; it is a soft limit that may be
// overshot by at most one buffer's capacity.
//
// Example usage:
//
//	p := pool.New()
//	buf := p.Allocate(100)
//	copy(buf, payload)
//	p.AddRef(buf) // second owner
//	p.Free(buf)
//	p.Free(buf)   // block returns to its slab here
package pool
