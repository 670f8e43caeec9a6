package rbtree_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ordtree/pkg/rbtree"
)

func TestEnumerator(t *testing.T) {
	t.Parallel()

	tree := rbtree.New[int]()
	for _, item := range []int{5, 3, 8, 1, 4, 7, 9, 2, 6} {
		tree.Add(item)
	}

	en := tree.Enumerator()
	assert.Zero(t, en.Current())

	var got []int
	for en.MoveNext() {
		got = append(got, en.Current())
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
	assert.False(t, en.MoveNext())
	assert.Zero(t, en.Current())

	en.Reset()
	require.True(t, en.MoveNext())
	assert.Equal(t, 1, en.Current())
}

func TestEnumeratorEmpty(t *testing.T) {
	t.Parallel()

	en := rbtree.New[string]().Enumerator()
	assert.False(t, en.MoveNext())
	assert.False(t, en.MoveNext())
	assert.Empty(t, en.Current())
}

func TestAllAndBackward(t *testing.T) {
	t.Parallel()

	tree := rbtree.New[int]()
	for idx := range 100 {
		tree.Add((idx * 37) % 100)
	}

	forward := slices.Collect(tree.All())
	backward := slices.Collect(tree.Backward())

	assert.Len(t, forward, tree.Len())
	assert.True(t, slices.IsSorted(forward))

	slices.Reverse(backward)
	assert.Equal(t, forward, backward)

	// Early break stops the walk.
	var firstThree []int

	for item := range tree.All() {
		if len(firstThree) == 3 {
			break
		}

		firstThree = append(firstThree, item)
	}

	assert.Equal(t, []int{0, 1, 2}, firstThree)

	for idx, item := range tree.Indexed() {
		assert.Equal(t, idx, item)
	}
}

// TestEnumerateDeepTree walks a large tree built from sorted input, the shape
// that would be deepest for a recursive walk.
func TestEnumerateDeepTree(t *testing.T) {
	t.Parallel()

	const size = 200000

	tree := rbtree.New[int]()
	for idx := range size {
		tree.Add(idx)
	}

	count := 0
	prev := -1

	for item := range tree.All() {
		require.Equal(t, prev+1, item)

		prev = item
		count++
	}

	assert.Equal(t, size, count)
}
