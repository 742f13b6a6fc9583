// Package queue provides Queue, a FIFO container whose nodes are backed by
// storage from an alloc.Allocator, usually an alloc.Pool.
//
// Each pushed element gets one node-sized block from the allocator; popping
// hands the block back, so with a Pool the next push reuses it instead of
// growing the pool.
//
//	p := alloc.NewPool()
//	defer p.Close()
//
//	q := queue.New[string](queue.WithAllocator(p))
//	defer q.Release()
//
//	_ = q.Push("first")
//	_ = q.Push("second")
//	v, _ := q.Front() // "first"
//
// Copies (Clone, CopyFrom) are deep and order preserving; elements that
// implement Cloner are cloned rather than assigned. Moves (Take, MoveFrom)
// relink the chain without touching elements when the allocators allow it.
// Which allocator a copy or move ends up with is governed by Policy.
//
// A Queue is not safe for concurrent use.
package queue
