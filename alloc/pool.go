package alloc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"unsafe"

	"github.com/joshuapare/blockq/internal/align"
)

// Granule is the rounding unit for pool block sizes.
const Granule = 64

// MaxPoolSize is the largest request a Pool accepts; anything bigger cannot
// be rounded up to a whole granule.
const MaxPoolSize = math.MaxInt &^ (Granule - 1)

// blockRecord tracks one block obtained from upstream.
type blockRecord struct {
	buf       []byte
	size      int // granule-rounded
	alignment int
	used      bool
}

// PoolStats holds pool counters for testing and instrumentation.
type PoolStats struct {
	AllocCalls int // Total Allocate() calls that passed validation
	Reused     int // Allocations served from a free block
	Grown      int // Allocations that went upstream
	FreeCalls  int // Total Deallocate() calls
	Forwarded  int // Deallocations of foreign blocks passed upstream
}

// Pool is a pooled allocator. It serves requests from previously freed
// blocks before asking its upstream allocator for more, and keeps every
// block it ever obtained until Close.
//
// The block list only grows while the pool lives and is kept in insertion
// order; reuse is first-fit over that order, by size only.
type Pool struct {
	upstream Allocator
	blocks   []blockRecord
	log      *slog.Logger
	stats    PoolStats
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithUpstream sets the allocator a Pool draws fresh blocks from.
func WithUpstream(a Allocator) PoolOption {
	return func(p *Pool) {
		p.upstream = a
	}
}

// WithLogger sets the logger used for debug tracing of pool activity.
func WithLogger(l *slog.Logger) PoolOption {
	return func(p *Pool) {
		p.log = l
	}
}

// NewPool creates an empty pool. Without WithUpstream it draws from Default().
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{}
	for _, opt := range opts {
		opt(p)
	}
	if p.upstream == nil {
		p.upstream = Default()
	}
	if p.log == nil {
		p.log = logger()
	}
	return p
}

// Allocate rounds size up to a multiple of Granule and returns the first
// free block at least that large, or a new block from upstream.
// Upstream errors are returned as is.
func (p *Pool) Allocate(size, alignment int) ([]byte, error) {
	if err := validate(size, alignment); err != nil {
		return nil, err
	}
	if size > MaxPoolSize {
		return nil, fmt.Errorf("%w: pool request of %d bytes exceeds %d", ErrOutOfMemory, size, MaxPoolSize)
	}
	p.stats.AllocCalls++
	need := roundSize(size)

	for i := range p.blocks {
		b := &p.blocks[i]
		if !b.used && b.size >= need {
			b.used = true
			p.stats.Reused++
			p.log.Debug("pool reuse", "index", i, "size", b.size, "need", need)
			return b.buf, nil
		}
	}

	buf, err := p.upstream.Allocate(need, alignment)
	if err != nil {
		return nil, err
	}
	p.blocks = append(p.blocks, blockRecord{
		buf:       buf,
		size:      need,
		alignment: alignment,
		used:      true,
	})
	p.stats.Grown++
	p.log.Debug("pool grow",
		"size", need,
		"alignment", alignment,
		"blocks", len(p.blocks),
	)
	return buf, nil
}

// Deallocate marks the block starting at buf's address as free. A block the
// pool does not own is forwarded to upstream.
func (p *Pool) Deallocate(buf []byte, size, alignment int) error {
	p.stats.FreeCalls++
	if i := p.find(buf); i >= 0 {
		p.blocks[i].used = false
		return nil
	}

	p.stats.Forwarded++
	p.log.Debug("pool forward deallocation", "size", size, "alignment", alignment)
	return p.upstream.Deallocate(buf, size, alignment)
}

// Equal reports whether other is p.
func (p *Pool) Equal(other Allocator) bool {
	o, ok := other.(*Pool)
	return ok && o == p
}

// AllocatedBlocks returns the number of blocks currently in use.
func (p *Pool) AllocatedBlocks() int {
	n := 0
	for _, b := range p.blocks {
		if b.used {
			n++
		}
	}
	return n
}

// TotalBlocks returns the number of blocks owned by the pool, used or free.
func (p *Pool) TotalBlocks() int {
	return len(p.blocks)
}

// TotalMemory returns the sum of all block sizes, used or free.
func (p *Pool) TotalMemory() int {
	total := 0
	for _, b := range p.blocks {
		total += b.size
	}
	return total
}

// Stats returns a copy of the pool counters.
func (p *Pool) Stats() PoolStats {
	return p.stats
}

// Upstream returns the allocator the pool draws from.
func (p *Pool) Upstream() Allocator {
	return p.upstream
}

// Close returns every block to upstream, whether or not it is still in use,
// and forgets them. Blocks handed out earlier must not be touched afterwards.
// The pool stays usable and starts over empty.
func (p *Pool) Close() error {
	if len(p.blocks) == 0 {
		return nil
	}

	var errs []error
	for _, b := range p.blocks {
		if err := p.upstream.Deallocate(b.buf, b.size, b.alignment); err != nil {
			errs = append(errs, err)
		}
	}
	p.log.Debug("pool closed", "blocks", len(p.blocks), "errors", len(errs))

	clear(p.blocks)
	p.blocks = p.blocks[:0]
	return errors.Join(errs...)
}

func (p *Pool) find(buf []byte) int {
	if cap(buf) == 0 {
		return -1
	}
	ptr := unsafe.SliceData(buf)
	for i := range p.blocks {
		if unsafe.SliceData(p.blocks[i].buf) == ptr {
			return i
		}
	}
	return -1
}

// roundSize rounds a request to the pool's block size class. Empty requests
// take one granule so that every block has an address.
func roundSize(size int) int {
	return max(align.Up(size, Granule), Granule)
}

// Compile-time interface check
var _ Allocator = (*Pool)(nil)
