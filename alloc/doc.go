// Package alloc provides the memory allocators that back blockq containers.
//
// # Overview
//
// Every allocator implements the Allocator interface: a byte-level capability
// with Allocate, Deallocate and an identity-based Equal. A block's address is
// the address of its first byte.
//
// # Implementations
//
// Pool: pooled allocator with a growing set of granule-sized blocks
//
//   - Requests are rounded up to a multiple of Granule (64 bytes)
//   - First-fit reuse of freed blocks, in insertion order
//   - Falls back to the upstream allocator when nothing fits
//   - Freed blocks stay in the pool until Close
//
// Heap: pass-through allocator over the Go heap, with an optional byte limit.
//
// Mmap: pass-through allocator over anonymous private mappings (unix only).
//
// # Usage Example
//
//	p := alloc.NewPool(alloc.WithUpstream(alloc.NewHeap(0)))
//	defer p.Close()
//
//	buf, err := p.Allocate(100, 8) // served as a 128-byte block
//	if err != nil {
//	    return err
//	}
//
//	// Later, hand it back; the block is kept for the next request.
//	err = p.Deallocate(buf, 100, 8)
//
// # Default Allocator
//
// Default returns the process-wide allocator used when a constructor is not
// given one. It is created on first use from the BLOCKQ_UPSTREAM environment
// variable ("heap" or "mmap") and never replaced.
//
// # Alignment
//
// Alignments must be positive powers of two. Pool matches free blocks by size
// only; the alignment of a reused block is whatever it was first allocated
// with.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
package alloc
