package queue

import "github.com/joshuapare/blockq/alloc"

// CopySelection picks the allocator of a queue created by Clone.
type CopySelection int

const (
	// SelectDefault gives the copy the process default allocator.
	SelectDefault CopySelection = iota
	// SelectSource gives the copy the source queue's allocator.
	SelectSource
)

// Policy governs how the allocator travels on copy and move.
//
// The zero Policy behaves like a polymorphic allocator: copies get the
// default allocator and assignment never replaces the target's allocator.
type Policy struct {
	SelectOnCopy    CopySelection
	PropagateOnCopy bool // CopyFrom adopts the source allocator
	PropagateOnMove bool // MoveFrom adopts the source allocator
}

func (p Policy) selectOnCopy(src alloc.Allocator) alloc.Allocator {
	if p.SelectOnCopy == SelectSource {
		return src
	}
	return alloc.Default()
}

type options struct {
	alloc  alloc.Allocator
	policy Policy
}

// Option configures a Queue.
type Option func(*options)

// WithAllocator sets the allocator for node storage.
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

// WithPolicy sets the allocator propagation policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

func defaultOptions() options {
	return options{}
}
