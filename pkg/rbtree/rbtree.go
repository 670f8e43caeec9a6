// Package rbtree provides an order-statistic red-black tree.
//
// The tree keeps a strictly ordered set of items under a caller-supplied
// comparator and answers positional queries (rank of an item, item at a rank)
// in O(log n) by caching the number of descendants in every node.
//
// Nodes are stored in an arena (see Allocator) and linked by index. Traversal
// and rank walks follow parent links and never recurse.
//
// A Tree is not safe for concurrent use. Mutating a tree while an Enumerator,
// Iterator or range-over-func sequence is active is undefined behavior.
package rbtree

import (
	"cmp"
	"fmt"
)

// CompareFunc is a function type that compares two items.
// It should return:
//   - a negative integer if a < b
//   - zero if a == b
//   - a positive integer if a > b
type CompareFunc[T any] func(a, b T) int

// Stats counts the rebalancing work performed by a tree since its creation.
type Stats struct {
	Rotations    uint64
	InsertFixups uint64
	DeleteFixups uint64
}

// Tree is a red-black tree augmented with subtree sizes.
//
// The implementation keeps the layout of Yaz Saito's arena tree: nodes are
// uint32 indexes into an Allocator, #0 is the nil reference, and the minimum
// and maximum nodes are cached for O(1) access to both ends.
type Tree[T any] struct {
	// Nodes allocator.
	allocator *Allocator[T]

	// Total order over the items.
	compare CompareFunc[T]

	// Root of the tree.
	root uint32

	// The minimum and maximum nodes under the tree.
	minNode, maxNode uint32

	stats Stats
}

// New creates an empty tree ordered by [cmp.Compare].
func New[T cmp.Ordered]() *Tree[T] {
	return NewWithComparator[T](cmp.Compare[T])
}

// NewWithComparator creates an empty tree ordered by compare.
func NewWithComparator[T any](compare CompareFunc[T]) *Tree[T] {
	return NewWithAllocator(NewAllocator[T](), compare)
}

// NewWithAllocator creates an empty tree whose nodes live in allocator.
// Several trees may share one allocator.
func NewWithAllocator[T any](allocator *Allocator[T], compare CompareFunc[T]) *Tree[T] {
	if compare == nil {
		panic("rbtree: nil comparator")
	}

	if allocator == nil {
		allocator = NewAllocator[T]()
	}

	return &Tree[T]{allocator: allocator, compare: compare, root: 0, minNode: 0, maxNode: 0}
}

func (tree *Tree[T]) storage() []node[T] {
	return tree.allocator.storage
}

// Allocator returns the bound nodes allocator.
func (tree *Tree[T]) Allocator() *Allocator[T] {
	return tree.allocator
}

// Len returns the number of items in the tree.
func (tree *Tree[T]) Len() int {
	return int(subtreeSize(tree.root, tree.storage()))
}

// Stats returns the rebalancing counters.
func (tree *Tree[T]) Stats() Stats {
	return tree.stats
}

// Find returns the stored item equal to item.
func (tree *Tree[T]) Find(item T) (T, bool) {
	nodeIdx := tree.find(item)
	if nodeIdx == 0 {
		var zero T

		return zero, false
	}

	return tree.storage()[nodeIdx].item, true
}

// Contains reports whether an item equal to item is stored.
func (tree *Tree[T]) Contains(item T) bool {
	return tree.find(item) != 0
}

// First returns the minimum item.
func (tree *Tree[T]) First() (T, bool) {
	return tree.itemAt(tree.minNode)
}

// Last returns the maximum item.
func (tree *Tree[T]) Last() (T, bool) {
	return tree.itemAt(tree.maxNode)
}

// Add inserts item. If an equal item is already stored the tree is left
// untouched and Add returns false.
func (tree *Tree[T]) Add(item T) bool {
	_, inserted := tree.insert(item)

	return inserted
}

// AddUnique inserts item and fails with ErrDuplicateKey if an equal item is
// already stored. A failed call does not modify the tree.
func (tree *Tree[T]) AddUnique(item T) error {
	_, inserted := tree.insert(item)
	if !inserted {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, item)
	}

	return nil
}

// Remove deletes the item equal to item. Returns true iff it was found.
func (tree *Tree[T]) Remove(item T) bool {
	nodeIdx := tree.find(item)
	if nodeIdx == 0 {
		return false
	}

	tree.doDelete(nodeIdx)

	return true
}

// Clear removes all the nodes from the tree.
func (tree *Tree[T]) Clear() {
	alloc := tree.storage()
	nodes := make([]uint32, 0, tree.Len())

	for nodeIdx := tree.minNode; nodeIdx != 0; nodeIdx = doNext(nodeIdx, alloc) {
		nodes = append(nodes, nodeIdx)
	}

	for _, nd := range nodes {
		tree.allocator.free(nd)
	}

	tree.root = 0
	tree.minNode = 0
	tree.maxNode = 0
}

// Clone returns an independent tree with its own allocator, built by
// re-inserting every item in order.
func (tree *Tree[T]) Clone() *Tree[T] {
	clone := NewWithComparator(tree.compare)
	clone.allocator.Reserve(tree.Len() + 1)

	alloc := tree.storage()

	for nodeIdx := tree.minNode; nodeIdx != 0; nodeIdx = doNext(nodeIdx, alloc) {
		clone.insert(alloc[nodeIdx].item)
	}

	return clone
}

func (tree *Tree[T]) itemAt(nodeIdx uint32) (T, bool) {
	if nodeIdx == 0 {
		var zero T

		return zero, false
	}

	return tree.storage()[nodeIdx].item, true
}

func (tree *Tree[T]) find(item T) uint32 {
	nodeIdx, exact := tree.findOrParent(item)
	if !exact {
		return 0
	}

	return nodeIdx
}

// Find the node equal to item. If there is none, return the node under
// which item would be attached (0 for an empty tree) and false.
func (tree *Tree[T]) findOrParent(item T) (uint32, bool) {
	alloc := tree.storage()
	parent := uint32(0)
	nodeIdx := tree.root

	for nodeIdx != 0 {
		comp := tree.compare(item, alloc[nodeIdx].item)
		if comp == 0 {
			return nodeIdx, true
		}

		parent = nodeIdx

		if comp < 0 {
			nodeIdx = alloc[nodeIdx].left
		} else {
			nodeIdx = alloc[nodeIdx].right
		}
	}

	return parent, false
}

func (tree *Tree[T]) recomputeMinNode() {
	tree.minNode = 0
	if tree.root != 0 {
		tree.minNode = leftmost(tree.root, tree.storage())
	}
}

func (tree *Tree[T]) recomputeMaxNode() {
	tree.maxNode = 0
	if tree.root != 0 {
		tree.maxNode = rightmost(tree.root, tree.storage())
	}
}

// Link newn into the slot of oldn under oldn's parent. oldn keeps its own links.
func (tree *Tree[T]) replaceNode(oldn, newn uint32) {
	alloc := tree.storage()

	if alloc[oldn].parent == 0 {
		tree.root = newn
	} else {
		if oldn == alloc[alloc[oldn].parent].left {
			alloc[alloc[oldn].parent].left = newn
		} else {
			alloc[alloc[oldn].parent].right = newn
		}
	}

	if newn != 0 {
		alloc[newn].parent = alloc[oldn].parent
	}
}
