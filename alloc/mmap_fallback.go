//go:build !(linux || darwin || freebsd)

package alloc

const mmapSupported = false

// Mmap is unavailable on this platform; every allocation fails.
type Mmap struct {
	_ byte
}

// NewMmap creates an Mmap whose allocations fail with ErrUnsupported.
func NewMmap() *Mmap {
	return &Mmap{}
}

// Allocate always fails with ErrUnsupported.
func (m *Mmap) Allocate(size, alignment int) ([]byte, error) {
	return nil, ErrUnsupported
}

// Deallocate always fails with ErrUnsupported.
func (m *Mmap) Deallocate(buf []byte, size, alignment int) error {
	return ErrUnsupported
}

// Equal reports whether other is m.
func (m *Mmap) Equal(other Allocator) bool {
	o, ok := other.(*Mmap)
	return ok && o == m
}

// Compile-time interface check
var _ Allocator = (*Mmap)(nil)
