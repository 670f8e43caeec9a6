package rbtree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ordtree/pkg/rbtree"
)

func TestPositionalWritesRejected(t *testing.T) {
	t.Parallel()

	tree := rbtree.New[int]()
	tree.Add(1)
	tree.Add(2)

	require.ErrorIs(t, tree.Set(0, 5), rbtree.ErrUnsupported)
	require.ErrorIs(t, tree.Insert(1, 5), rbtree.ErrUnsupported)
	assert.Equal(t, []int{1, 2}, tree.Items())
}

func TestRemoveAt(t *testing.T) {
	t.Parallel()

	tree := rbtree.New[int]()
	for idx := range 10 {
		tree.Add(idx * 10)
	}

	item, err := tree.RemoveAt(3)
	require.NoError(t, err)
	assert.Equal(t, 30, item)
	assert.Equal(t, 9, tree.Len())
	assert.False(t, tree.Contains(30))
	require.NoError(t, tree.Validate())

	_, err = tree.RemoveAt(9)
	require.ErrorIs(t, err, rbtree.ErrIndexOutOfRange)
	assert.Equal(t, 9, tree.Len())

	for tree.Len() > 0 {
		_, err = tree.RemoveAt(0)
		require.NoError(t, err)
		require.NoError(t, tree.Validate())
	}
}
