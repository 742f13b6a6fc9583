package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the allocator could not satisfy a request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrBadAlignment indicates an alignment that is not a positive power of two,
	// or one the allocator cannot honour.
	ErrBadAlignment = errors.New("alloc: bad alignment")

	// ErrBadSize indicates a negative request size or an empty block.
	ErrBadSize = errors.New("alloc: bad size")

	// ErrUnsupported indicates the allocator is not available on this platform.
	ErrUnsupported = errors.New("alloc: unsupported on this platform")
)
