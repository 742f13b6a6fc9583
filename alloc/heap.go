package alloc

import (
	"fmt"
	"math"

	"github.com/joshuapare/blockq/internal/align"
)

// maxHeapBlock bounds the bytes Heap asks make for in one block. Larger
// lengths make the runtime panic instead of failing.
const maxHeapBlock uint64 = 1 << 47

// Heap allocates blocks from the Go heap. Deallocate only drops the
// accounting; the garbage collector reclaims the memory once the caller
// lets go of the slice.
type Heap struct {
	limit int
	live  int
}

// NewHeap creates a heap allocator that refuses to hold more than limit live
// bytes. A limit of 0 means unlimited.
func NewHeap(limit int) *Heap {
	return &Heap{limit: limit}
}

// Allocate returns a zeroed block of max(size, 1) bytes aligned to alignment.
func (h *Heap) Allocate(size, alignment int) ([]byte, error) {
	if err := validate(size, alignment); err != nil {
		return nil, err
	}
	n := max(size, 1)
	if n > math.MaxInt-(alignment-1) || uint64(n+alignment-1) > maxHeapBlock {
		return nil, fmt.Errorf("%w: heap block of %d bytes aligned to %d is too large",
			ErrOutOfMemory, n, alignment)
	}
	if h.limit > 0 && h.live+n > h.limit {
		return nil, fmt.Errorf("%w: heap limit %d, live %d, requested %d",
			ErrOutOfMemory, h.limit, h.live, n)
	}

	raw := make([]byte, n+alignment-1)
	off := align.Offset(addr(raw), alignment)
	h.live += n
	return raw[off : off+n : off+n], nil
}

// Deallocate releases the accounting for buf.
func (h *Heap) Deallocate(buf []byte, size, alignment int) error {
	if err := validate(size, alignment); err != nil {
		return err
	}
	if len(buf) == 0 {
		return ErrBadSize
	}
	h.live = max(h.live-max(size, 1), 0)
	return nil
}

// Equal reports whether other is h.
func (h *Heap) Equal(other Allocator) bool {
	o, ok := other.(*Heap)
	return ok && o == h
}

// Live returns the number of bytes allocated and not yet deallocated.
func (h *Heap) Live() int {
	return h.live
}

// Compile-time interface check
var _ Allocator = (*Heap)(nil)
