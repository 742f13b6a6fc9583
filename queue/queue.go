package queue

import (
	"errors"
	"fmt"
	"iter"
	"unsafe"

	"github.com/joshuapare/blockq/alloc"
)

// node holds one element. mem is the storage reserved for it from the
// queue's allocator; it goes back to the allocator when the node is dropped.
type node[T any] struct {
	value T
	next  *node[T]
	mem   []byte
}

// nodeLayout returns the size and alignment requested per node.
func nodeLayout[T any]() (size, alignment int) {
	var n node[T]
	return int(unsafe.Sizeof(n)), int(unsafe.Alignof(n))
}

// Cloner is implemented by element types that own data which must not be
// shared between a queue and its copies.
type Cloner[T any] interface {
	Clone() T
}

func copyValue[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}

// Queue is a singly linked FIFO container.
//
// Invariants: head is nil iff size is 0, tail.next is always nil, and
// walking size links from head ends at tail.
type Queue[T any] struct {
	head   *node[T]
	tail   *node[T]
	size   int
	alloc  alloc.Allocator
	policy Policy
}

// New creates an empty queue. Without WithAllocator it uses alloc.Default().
func New[T any](opts ...Option) *Queue[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.alloc == nil {
		o.alloc = alloc.Default()
	}
	return &Queue[T]{alloc: o.alloc, policy: o.policy}
}

// Allocator returns the allocator backing the queue's nodes.
func (q *Queue[T]) Allocator() alloc.Allocator {
	return q.alloc
}

// Policy returns the queue's allocator propagation policy.
func (q *Queue[T]) Policy() Policy {
	return q.policy
}

// Len returns the number of elements.
func (q *Queue[T]) Len() int {
	return q.size
}

// Empty reports whether the queue holds no elements.
func (q *Queue[T]) Empty() bool {
	return q.size == 0
}

// Push appends a copy of v. If the allocator fails, its error is returned
// unchanged and the queue is left as it was.
func (q *Queue[T]) Push(v T) error {
	n, err := q.newNode(func() (T, error) { return v, nil })
	if err != nil {
		return err
	}
	q.link(n)
	return nil
}

// PushFunc appends the element built by ctor. Node storage is reserved
// before ctor runs; if ctor fails or panics the storage is released first
// and the queue is left as it was. A ctor error is reported wrapped in
// ErrConstruction.
func (q *Queue[T]) PushFunc(ctor func() (T, error)) error {
	n, err := q.newNode(ctor)
	if err != nil {
		return err
	}
	q.link(n)
	return nil
}

func (q *Queue[T]) newNode(ctor func() (T, error)) (*node[T], error) {
	size, alignment := nodeLayout[T]()
	mem, err := q.alloc.Allocate(size, alignment)
	if err != nil {
		return nil, err
	}

	constructed := false
	defer func() {
		if !constructed {
			if r := recover(); r != nil {
				_ = q.alloc.Deallocate(mem, size, alignment)
				panic(r)
			}
		}
	}()

	v, err := ctor()
	constructed = true
	if err != nil {
		cerr := fmt.Errorf("%w: %w", ErrConstruction, err)
		if rerr := q.alloc.Deallocate(mem, size, alignment); rerr != nil {
			return nil, errors.Join(cerr, rerr)
		}
		return nil, cerr
	}
	return &node[T]{value: v, mem: mem}, nil
}

func (q *Queue[T]) link(n *node[T]) {
	if q.tail != nil {
		q.tail.next = n
	} else {
		q.head = n
	}
	q.tail = n
	q.size++
}

// release drops n's element and returns its storage.
func (q *Queue[T]) release(n *node[T]) error {
	size, alignment := nodeLayout[T]()
	mem := n.mem
	*n = node[T]{}
	return q.alloc.Deallocate(mem, size, alignment)
}

// Pop removes the front element. It returns ErrEmpty on an empty queue.
// An allocator error while releasing the node is returned after the element
// is already gone.
func (q *Queue[T]) Pop() error {
	_, err := q.PopFront()
	return err
}

// PopFront removes the front element and returns it.
func (q *Queue[T]) PopFront() (T, error) {
	if q.size == 0 {
		var zero T
		return zero, ErrEmpty
	}

	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.size--

	v := n.value
	return v, q.release(n)
}

// Front returns the oldest element.
func (q *Queue[T]) Front() (T, error) {
	if q.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return q.head.value, nil
}

// Back returns the newest element.
func (q *Queue[T]) Back() (T, error) {
	if q.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return q.tail.value, nil
}

// FrontRef returns a pointer to the oldest element, valid until it is popped.
func (q *Queue[T]) FrontRef() (*T, error) {
	if q.size == 0 {
		return nil, ErrEmpty
	}
	return &q.head.value, nil
}

// BackRef returns a pointer to the newest element, valid until it is popped.
func (q *Queue[T]) BackRef() (*T, error) {
	if q.size == 0 {
		return nil, ErrEmpty
	}
	return &q.tail.value, nil
}

// Clear pops every element and returns the first release error, if any.
func (q *Queue[T]) Clear() error {
	var first error
	for q.size > 0 {
		if err := q.Pop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Release gives all node storage back to the allocator. The queue remains
// usable afterwards.
func (q *Queue[T]) Release() error {
	return q.Clear()
}

// Clone returns a deep copy. The copy's allocator is chosen by the policy's
// SelectOnCopy. On failure the partial copy is released and q is untouched.
func (q *Queue[T]) Clone() (*Queue[T], error) {
	c := &Queue[T]{alloc: q.policy.selectOnCopy(q.alloc), policy: q.policy}
	if err := c.appendFrom(q.All(), copyValue[T]); err != nil {
		return nil, withCleanup(err, c.Clear())
	}
	return c, nil
}

// CopyFrom replaces the contents of q with a deep copy of other. With
// PropagateOnCopy q adopts other's allocator. If the copy fails q keeps its
// previous contents and allocator.
func (q *Queue[T]) CopyFrom(other *Queue[T]) error {
	if other == q {
		return nil
	}

	a := q.alloc
	if q.policy.PropagateOnCopy {
		a = other.alloc
	}
	scratch := &Queue[T]{alloc: a, policy: q.policy}
	if err := scratch.appendFrom(other.All(), copyValue[T]); err != nil {
		return withCleanup(err, scratch.Clear())
	}

	err := q.Clear()
	q.alloc = a
	q.adopt(scratch)
	return err
}

// Take moves the contents and allocator of q into a new queue and leaves q
// empty. No element is copied.
func (q *Queue[T]) Take() *Queue[T] {
	m := &Queue[T]{alloc: q.alloc, policy: q.policy}
	m.adopt(q)
	return m
}

// MoveFrom replaces the contents of q with those of other and leaves other
// empty.
//
// When the allocators are equal, or the policy propagates on move, the chain
// is relinked as is and only q's old elements are released. Otherwise other's
// elements are moved one by one into storage from q's allocator; if that
// fails both queues are left as they were.
func (q *Queue[T]) MoveFrom(other *Queue[T]) error {
	if other == q {
		return nil
	}

	if q.policy.PropagateOnMove || q.alloc.Equal(other.alloc) {
		err := q.Clear()
		if q.policy.PropagateOnMove {
			q.alloc = other.alloc
		}
		q.adopt(other)
		return err
	}

	scratch := &Queue[T]{alloc: q.alloc, policy: q.policy}
	if err := scratch.appendFrom(other.All(), func(v T) T { return v }); err != nil {
		return withCleanup(err, scratch.Clear())
	}
	err := q.Clear()
	q.adopt(scratch)
	return errors.Join(err, other.Clear())
}

// adopt takes over other's chain and empties it. Allocators are untouched.
func (q *Queue[T]) adopt(other *Queue[T]) {
	q.head, q.tail, q.size = other.head, other.tail, other.size
	other.head, other.tail, other.size = nil, nil, 0
}

// appendFrom pushes conv(v) for every element v of s, in order.
func (q *Queue[T]) appendFrom(s iter.Seq[T], conv func(T) T) error {
	for v := range s {
		if err := q.Push(conv(v)); err != nil {
			return err
		}
	}
	return nil
}

// withCleanup returns err unchanged unless cleanup failed as well.
func withCleanup(err, cleanup error) error {
	if cleanup == nil {
		return err
	}
	return errors.Join(err, cleanup)
}

// All returns an iterator over the elements from front to back.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := q.head; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}

// Values returns the elements from front to back in a new slice.
func (q *Queue[T]) Values() []T {
	out := make([]T, 0, q.size)
	for v := range q.All() {
		out = append(out, v)
	}
	return out
}

// Begin returns an iterator at the front element.
func (q *Queue[T]) Begin() Iterator[T] {
	return Iterator[T]{cursor[T]{q.head}}
}

// End returns the end iterator.
func (q *Queue[T]) End() Iterator[T] {
	return Iterator[T]{}
}

// CBegin returns a read-only iterator at the front element.
func (q *Queue[T]) CBegin() ConstIterator[T] {
	return ConstIterator[T]{cursor[T]{q.head}}
}

// CEnd returns the read-only end iterator.
func (q *Queue[T]) CEnd() ConstIterator[T] {
	return ConstIterator[T]{}
}
