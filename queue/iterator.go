package queue

// cursor is the traversal shared by Iterator and ConstIterator. A nil node
// is the end position.
type cursor[T any] struct {
	cur *node[T]
}

// Next moves to the following element. It does nothing at the end.
func (c *cursor[T]) Next() {
	if c.cur != nil {
		c.cur = c.cur.next
	}
}

// Done reports whether the cursor is at the end.
func (c cursor[T]) Done() bool {
	return c.cur == nil
}

func (c cursor[T]) at() *node[T] {
	if c.cur == nil {
		panic("queue: dereference of end iterator")
	}
	return c.cur
}

// Iterator is a forward cursor with mutable access to elements.
type Iterator[T any] struct {
	cursor[T]
}

// Value returns the current element. It panics at the end.
func (it Iterator[T]) Value() T {
	return it.at().value
}

// Ref returns a pointer to the current element. It panics at the end.
func (it Iterator[T]) Ref() *T {
	return &it.at().value
}

// Equal reports whether both iterators are at the same node, or both at the end.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.cur == other.cur
}

// Const returns a read-only iterator at the same position.
func (it Iterator[T]) Const() ConstIterator[T] {
	return ConstIterator[T]{it.cursor}
}

// ConstIterator is a forward cursor with read-only access to elements.
type ConstIterator[T any] struct {
	cursor[T]
}

// Value returns a copy of the current element. It panics at the end.
func (it ConstIterator[T]) Value() T {
	return it.at().value
}

// Equal reports whether both iterators are at the same node, or both at the end.
func (it ConstIterator[T]) Equal(other ConstIterator[T]) bool {
	return it.cur == other.cur
}
