package queue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blockq/alloc"
	"github.com/joshuapare/blockq/internal/testutil"
)

func pushAll[T any](t *testing.T, q *Queue[T], vs ...T) {
	t.Helper()
	for _, v := range vs {
		require.NoError(t, q.Push(v))
	}
}

// payload owns a slice so copies can be told apart from shares.
type payload struct {
	id   int
	tags []string
}

func (p payload) Clone() payload {
	return payload{id: p.id, tags: append([]string(nil), p.tags...)}
}

func TestClone_IsIndependent(t *testing.T) {
	original, _ := newPoolQueue[int](t)
	pushAll(t, original, 1, 2, 3)

	c, err := original.Clone()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Release()) })

	require.Equal(t, 3, c.Len())
	front, _ := c.Front()
	back, _ := c.Back()
	require.Equal(t, 1, front)
	require.Equal(t, 3, back)
	requireInvariants(t, c)

	require.NoError(t, c.Pop())
	require.Equal(t, 2, c.Len())
	require.Equal(t, 3, original.Len())
	require.Equal(t, []int{1, 2, 3}, original.Values())

	require.NoError(t, original.Push(4))
	require.Equal(t, []int{2, 3}, c.Values())
}

func TestClone_DefaultPolicyUsesDefaultAllocator(t *testing.T) {
	original, p := newPoolQueue[int](t)
	pushAll(t, original, 1, 2)

	c, err := original.Clone()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Release()) })

	require.Same(t, alloc.Default(), c.Allocator())
	require.Equal(t, 2, p.AllocatedBlocks(), "the copy must not draw from the source pool")
}

func TestClone_SelectSource(t *testing.T) {
	original, p := newPoolQueue[int](t, WithPolicy(Policy{SelectOnCopy: SelectSource}))
	pushAll(t, original, 1, 2)

	c, err := original.Clone()
	require.NoError(t, err)

	require.Same(t, p, c.Allocator())
	require.Equal(t, 4, p.AllocatedBlocks())
	require.NoError(t, c.Release())
	require.Equal(t, 2, p.AllocatedBlocks())
}

func TestClone_DeepCopiesCloners(t *testing.T) {
	original, _ := newPoolQueue[payload](t)
	pushAll(t, original, payload{id: 1, tags: []string{"a"}})

	c, err := original.Clone()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Release()) })

	ref, err := c.FrontRef()
	require.NoError(t, err)
	ref.tags[0] = "changed"

	front, _ := original.Front()
	require.Equal(t, "a", front.tags[0])
}

func TestClone_FailureReleasesPartialCopy(t *testing.T) {
	up := testutil.NewRecorder()
	original := New[int](WithAllocator(up), WithPolicy(Policy{SelectOnCopy: SelectSource}))
	pushAll(t, original, 1, 2, 3)
	up.FailFrom(3)

	c, err := original.Clone()
	require.ErrorIs(t, err, testutil.ErrInjected)
	require.Nil(t, c)
	require.Equal(t, 3, up.Live(), "two copied nodes must be released again")
	require.Equal(t, []int{1, 2, 3}, original.Values())

	up.FailFrom(0)
	require.NoError(t, original.Release())
	require.Zero(t, up.Live())
}

func TestCopyFrom_ReplacesContents(t *testing.T) {
	src, p := newPoolQueue[int](t)
	pushAll(t, src, 1, 2, 3)

	dst := New[int](WithAllocator(p))
	t.Cleanup(func() { require.NoError(t, dst.Release()) })
	pushAll(t, dst, 99)

	require.NoError(t, dst.CopyFrom(src))
	require.Equal(t, []int{1, 2, 3}, dst.Values())
	require.Equal(t, []int{1, 2, 3}, src.Values())
	require.Same(t, p, dst.Allocator())
	require.Equal(t, 6, p.AllocatedBlocks())
	requireInvariants(t, dst)
}

func TestCopyFrom_Self(t *testing.T) {
	q, p := newPoolQueue[int](t)
	pushAll(t, q, 1, 2)

	require.NoError(t, q.CopyFrom(q))
	require.Equal(t, []int{1, 2}, q.Values())
	require.Equal(t, 2, p.TotalBlocks())
}

func TestCopyFrom_Propagation(t *testing.T) {
	srcQ, srcPool := newPoolQueue[int](t)
	pushAll(t, srcQ, 1, 2)

	t.Run("kept", func(t *testing.T) {
		dst, dstPool := newPoolQueue[int](t)
		require.NoError(t, dst.CopyFrom(srcQ))
		require.Same(t, dstPool, dst.Allocator())
		require.Equal(t, 2, dstPool.AllocatedBlocks())
	})

	t.Run("propagated", func(t *testing.T) {
		dst, dstPool := newPoolQueue[int](t, WithPolicy(Policy{PropagateOnCopy: true}))
		pushAll(t, dst, 7)

		require.NoError(t, dst.CopyFrom(srcQ))
		require.Same(t, srcPool, dst.Allocator())
		require.Zero(t, dstPool.AllocatedBlocks(), "old nodes go back to the old allocator")
		require.Equal(t, 4, srcPool.AllocatedBlocks())
		require.NoError(t, dst.Release())
	})
}

func TestCopyFrom_FailureKeepsTarget(t *testing.T) {
	src, _ := newPoolQueue[int](t)
	pushAll(t, src, 1, 2, 3)

	up := testutil.NewRecorder()
	dst := New[int](WithAllocator(up))
	pushAll(t, dst, 42)
	up.FailFrom(2)

	err := dst.CopyFrom(src)
	require.ErrorIs(t, err, testutil.ErrInjected)
	require.Equal(t, []int{42}, dst.Values())
	require.Equal(t, 1, up.Live())
	requireInvariants(t, dst)

	require.NoError(t, dst.Release())
}

func TestTake_MovesChain(t *testing.T) {
	original, p := newPoolQueue[int](t)
	pushAll(t, original, 1, 2, 3)
	head := original.head

	moved := original.Take()
	t.Cleanup(func() { require.NoError(t, moved.Release()) })

	require.True(t, original.Empty())
	require.Zero(t, original.Len())
	requireInvariants(t, original)

	require.Equal(t, []int{1, 2, 3}, moved.Values())
	require.Same(t, head, moved.head, "no element is copied")
	require.Same(t, p, moved.Allocator())
	require.Equal(t, 3, p.AllocatedBlocks())
}

func TestMoveFrom_SameAllocatorRelinks(t *testing.T) {
	src, p := newPoolQueue[int](t)
	pushAll(t, src, 1, 2, 3)
	head := src.head

	dst := New[int](WithAllocator(p))
	t.Cleanup(func() { require.NoError(t, dst.Release()) })
	pushAll(t, dst, 99)

	require.NoError(t, dst.MoveFrom(src))
	require.Equal(t, []int{1, 2, 3}, dst.Values())
	require.Same(t, head, dst.head)
	require.True(t, src.Empty())
	require.Equal(t, 3, p.AllocatedBlocks(), "the 99 node is released")
	requireInvariants(t, src)
	requireInvariants(t, dst)
}

func TestMoveFrom_Self(t *testing.T) {
	q, _ := newPoolQueue[int](t)
	pushAll(t, q, 1)
	require.NoError(t, q.MoveFrom(q))
	require.Equal(t, []int{1}, q.Values())
}

func TestMoveFrom_UnequalAllocatorsRehome(t *testing.T) {
	src, srcPool := newPoolQueue[int](t)
	pushAll(t, src, 1, 2, 3)
	dst, dstPool := newPoolQueue[int](t)

	require.NoError(t, dst.MoveFrom(src))
	require.Equal(t, []int{1, 2, 3}, dst.Values())
	require.True(t, src.Empty())
	require.Same(t, dstPool, dst.Allocator())
	require.Equal(t, 3, dstPool.AllocatedBlocks())
	require.Zero(t, srcPool.AllocatedBlocks())
}

func TestMoveFrom_PropagateRelinks(t *testing.T) {
	src, srcPool := newPoolQueue[int](t)
	pushAll(t, src, 1, 2)
	head := src.head
	dst, dstPool := newPoolQueue[int](t, WithPolicy(Policy{PropagateOnMove: true}))
	pushAll(t, dst, 5)

	require.NoError(t, dst.MoveFrom(src))
	require.Same(t, srcPool, dst.Allocator())
	require.Same(t, head, dst.head)
	require.Zero(t, dstPool.AllocatedBlocks())
	require.Equal(t, 2, srcPool.AllocatedBlocks())
	require.True(t, src.Empty())
}

func TestMoveFrom_FailureKeepsBoth(t *testing.T) {
	src, _ := newPoolQueue[int](t)
	pushAll(t, src, 1, 2, 3)

	up := testutil.NewRecorder()
	dst := New[int](WithAllocator(up))
	pushAll(t, dst, 9)
	up.FailFrom(2)

	err := dst.MoveFrom(src)
	require.ErrorIs(t, err, testutil.ErrInjected)
	require.Equal(t, []int{9}, dst.Values())
	require.Equal(t, []int{1, 2, 3}, src.Values())
	require.Equal(t, 1, up.Live())

	require.NoError(t, dst.Release())
}

func TestCopyAndMoveSemantics(t *testing.T) {
	original, p := newPoolQueue[int](t)
	pushAll(t, original, 1, 2, 3)

	c, err := original.Clone()
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	require.NoError(t, c.Pop())
	require.Equal(t, 2, c.Len())
	require.Equal(t, 3, original.Len())
	require.NoError(t, c.Release())

	moved := original.Take()
	require.Equal(t, 3, moved.Len())
	require.True(t, original.Empty())

	another := New[int](WithAllocator(p))
	pushAll(t, another, 99)
	require.NoError(t, another.MoveFrom(moved))
	require.Equal(t, 3, another.Len())
	require.True(t, moved.Empty())
	require.NoError(t, another.Release())
}
