package rbtree //nolint:testpackage // rotations are unexported.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recount walks the whole subtree; rotations must agree with it without
// walking.
func recount(tb testing.TB, tree *Tree[int], nodeIdx uint32) uint32 {
	tb.Helper()

	if nodeIdx == 0 {
		return 0
	}

	alloc := tree.storage()
	size := recount(tb, tree, alloc[nodeIdx].left) + recount(tb, tree, alloc[nodeIdx].right) + 1
	assert.Equal(tb, size-1, alloc[nodeIdx].childCount, "childCount of node %d", nodeIdx)

	return size
}

func buildSequential(count int) *Tree[int] {
	tree := New[int]()
	for idx := range count {
		tree.Add(idx)
	}

	return tree
}

func TestRotateLeftCounts(t *testing.T) {
	t.Parallel()

	tree := buildSequential(15)
	alloc := tree.storage()
	pivot := tree.root
	child := alloc[pivot].right
	outer := alloc[child].right
	pivotCount := alloc[pivot].childCount
	rotations := tree.Stats().Rotations

	tree.rotateLeft(pivot)

	assert.Equal(t, child, tree.root)
	assert.Equal(t, pivot, alloc[child].left)
	assert.Equal(t, child, alloc[pivot].parent)
	assert.Equal(t, pivotCount, alloc[child].childCount)
	assert.Equal(t, pivotCount-subtreeSize(outer, alloc)-1, alloc[pivot].childCount)
	assert.Equal(t, uint32(15), recount(t, tree, tree.root))
	assert.Equal(t, rotations+1, tree.Stats().Rotations)
}

func TestRotateRightCounts(t *testing.T) {
	t.Parallel()

	tree := buildSequential(15)
	alloc := tree.storage()
	pivot := tree.root
	child := alloc[pivot].left
	outer := alloc[child].left
	pivotCount := alloc[pivot].childCount

	tree.rotateRight(pivot)

	assert.Equal(t, child, tree.root)
	assert.Equal(t, pivot, alloc[child].right)
	assert.Equal(t, child, alloc[pivot].parent)
	assert.Equal(t, pivotCount, alloc[child].childCount)
	assert.Equal(t, pivotCount-subtreeSize(outer, alloc)-1, alloc[pivot].childCount)
	assert.Equal(t, uint32(15), recount(t, tree, tree.root))
}

// TestRotateEveryNode rotates at every inner node in both directions and
// recounts the whole tree after each rotation.
func TestRotateEveryNode(t *testing.T) {
	t.Parallel()

	tree := buildSequential(63)
	before := tree.Items()

	for nodeIdx := uint32(1); nodeIdx < uint32(tree.Allocator().Size()); nodeIdx++ {
		alloc := tree.storage()

		if alloc[nodeIdx].right != 0 {
			tree.rotateLeft(nodeIdx)
			require.Equal(t, uint32(63), recount(t, tree, tree.root))
			require.Equal(t, before, tree.Items())

			tree.rotateRight(alloc[nodeIdx].parent)
			require.Equal(t, uint32(63), recount(t, tree, tree.root))
		}

		if alloc[nodeIdx].left != 0 {
			tree.rotateRight(nodeIdx)
			require.Equal(t, uint32(63), recount(t, tree, tree.root))
			require.Equal(t, before, tree.Items())

			tree.rotateLeft(alloc[nodeIdx].parent)
			require.Equal(t, uint32(63), recount(t, tree, tree.root))
		}
	}

	// Rotating back and forth restores the original shape.
	require.NoError(t, tree.Validate())
}

func TestRotateWithoutChildPanics(t *testing.T) {
	t.Parallel()

	tree := buildSequential(1)
	assert.Panics(t, func() { tree.rotateLeft(tree.root) })
	assert.Panics(t, func() { tree.rotateRight(tree.root) })
}
