package testutil

import (
	"errors"
	"fmt"

	"github.com/joshuapare/blockq/alloc"
)

var (
	// ErrInjected is returned by a Recorder told to fail allocations.
	ErrInjected = errors.New("testutil: injected allocation failure")

	// ErrUnknownBlock is returned when a Recorder is handed a block it never
	// allocated, or one it already took back.
	ErrUnknownBlock = errors.New("testutil: unknown or already released block")

	// ErrCtor is the error returned by FailingCtor.
	ErrCtor = errors.New("testutil: constructor failed")
)

// Recorder is an upstream allocator for tests. It hands out heap blocks and
// remembers every one of them, so tests can check that each block comes back
// exactly once.
//
// Example:
//
//	up := testutil.NewRecorder()
//	p := alloc.NewPool(alloc.WithUpstream(up))
//	...
//	require.NoError(t, p.Close())
//	require.Zero(t, up.Live())
type Recorder struct {
	live map[*byte]int // address -> size of outstanding blocks

	allocs   int
	deallocs int
	failAt   int // allocation number that starts failing (0 = never)
}

// NewRecorder creates a Recorder with no outstanding blocks.
func NewRecorder() *Recorder {
	return &Recorder{live: make(map[*byte]int)}
}

// FailFrom makes the nth allocation from now, and every one after it, fail
// with ErrInjected. n = 1 fails the very next allocation; n <= 0 disables
// failures.
func (r *Recorder) FailFrom(n int) {
	if n <= 0 {
		r.failAt = 0
		return
	}
	r.failAt = r.allocs + n
}

// Allocate returns a fresh heap block of max(size, 1) bytes.
func (r *Recorder) Allocate(size, alignment int) ([]byte, error) {
	if r.failAt > 0 && r.allocs+1 >= r.failAt {
		return nil, ErrInjected
	}
	r.allocs++

	buf := make([]byte, max(size, 1))
	r.live[&buf[0]] = size
	return buf, nil
}

// Deallocate takes back a block handed out by Allocate.
func (r *Recorder) Deallocate(buf []byte, size, alignment int) error {
	if len(buf) == 0 {
		return fmt.Errorf("%w: empty block", ErrUnknownBlock)
	}
	ptr := &buf[0]
	if _, ok := r.live[ptr]; !ok {
		return ErrUnknownBlock
	}
	delete(r.live, ptr)
	r.deallocs++
	return nil
}

// Equal reports whether other is r.
func (r *Recorder) Equal(other alloc.Allocator) bool {
	o, ok := other.(*Recorder)
	return ok && o == r
}

// Allocs returns the number of successful allocations.
func (r *Recorder) Allocs() int { return r.allocs }

// Deallocs returns the number of accepted deallocations.
func (r *Recorder) Deallocs() int { return r.deallocs }

// Live returns the number of blocks allocated and not yet returned.
func (r *Recorder) Live() int { return len(r.live) }

// Owns reports whether buf is an outstanding block of r.
func (r *Recorder) Owns(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	_, ok := r.live[&buf[0]]
	return ok
}

var _ alloc.Allocator = (*Recorder)(nil)

// FailingCtor returns an element constructor that always fails with ErrCtor.
func FailingCtor[T any]() func() (T, error) {
	return func() (T, error) {
		var zero T
		return zero, ErrCtor
	}
}

// Ctor returns an element constructor that yields v.
func Ctor[T any](v T) func() (T, error) {
	return func() (T, error) {
		return v, nil
	}
}
