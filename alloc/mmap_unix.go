//go:build linux || darwin || freebsd

package alloc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const mmapSupported = true

// Mmap allocates every block as its own anonymous private mapping. Blocks
// are page aligned, so any alignment up to the page size is honoured.
type Mmap struct {
	pageSize int
}

// NewMmap creates an mmap-backed allocator.
func NewMmap() *Mmap {
	return &Mmap{pageSize: unix.Getpagesize()}
}

// Allocate maps max(size, 1) bytes for reading and writing.
func (m *Mmap) Allocate(size, alignment int) ([]byte, error) {
	if err := validate(size, alignment); err != nil {
		return nil, err
	}
	if alignment > m.pageSize {
		return nil, fmt.Errorf("%w: %d exceeds page size %d", ErrBadAlignment, alignment, m.pageSize)
	}

	n := max(size, 1)
	buf, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrOutOfMemory, n, err)
	}
	return buf, nil
}

// Deallocate unmaps buf, which must be the exact slice returned by Allocate.
func (m *Mmap) Deallocate(buf []byte, size, alignment int) error {
	if len(buf) == 0 {
		return ErrBadSize
	}
	if err := unix.Munmap(buf); err != nil {
		return fmt.Errorf("alloc: munmap %d bytes: %w", len(buf), err)
	}
	return nil
}

// Equal reports whether other is m.
func (m *Mmap) Equal(other Allocator) bool {
	o, ok := other.(*Mmap)
	return ok && o == m
}

// Compile-time interface check
var _ Allocator = (*Mmap)(nil)
