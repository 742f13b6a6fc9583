package alloc

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"unsafe"

	"github.com/joshuapare/blockq/internal/align"
)

const (
	// EnvUpstream selects the process default allocator: "heap" or "mmap".
	EnvUpstream = "BLOCKQ_UPSTREAM"

	// EnvLogAlloc enables debug logging of pool activity on stderr when non-empty.
	EnvLogAlloc = "BLOCKQ_LOG_ALLOC"
)

// Allocator is a byte-level memory provider.
//
// Implementations:
//   - Pool: pooled allocator that reuses freed blocks
//   - Heap: Go heap pass-through
//   - Mmap: anonymous mapping pass-through
type Allocator interface {
	// Allocate returns a block of at least size bytes whose first byte is
	// aligned to alignment.
	Allocate(size, alignment int) ([]byte, error)

	// Deallocate returns a block obtained from Allocate. size and alignment
	// must be the values used to allocate it.
	Deallocate(buf []byte, size, alignment int) error

	// Equal reports whether other is this very allocator. Memory allocated
	// from one allocator may only be deallocated through an equal one.
	Equal(other Allocator) bool
}

var defaultAllocator = sync.OnceValue(func() Allocator {
	return newDefault(os.Getenv(EnvUpstream))
})

// Default returns the process-wide allocator, creating it on first use.
func Default() Allocator {
	return defaultAllocator()
}

func newDefault(kind string) Allocator {
	switch kind {
	case "", "heap":
		return NewHeap(0)
	case "mmap":
		if mmapSupported {
			return NewMmap()
		}
		logger().Warn("mmap upstream unsupported, using heap", "env", EnvUpstream)
		return NewHeap(0)
	default:
		logger().Warn("unknown upstream, using heap", "env", EnvUpstream, "value", kind)
		return NewHeap(0)
	}
}

var logger = sync.OnceValue(func() *slog.Logger {
	if os.Getenv(EnvLogAlloc) != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
})

func validate(size, alignment int) error {
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if !align.IsPow2(alignment) {
		return fmt.Errorf("%w: %d", ErrBadAlignment, alignment)
	}
	return nil
}

// addr returns the address of the first byte of buf.
func addr(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}
