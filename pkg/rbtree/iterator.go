package rbtree

// Iterator allows scanning tree elements in sort order.
//
// Iterator invalidation rule is the same as C++ std::map<>'s. That
// is, if you delete the element that an iterator points to, the
// iterator becomes invalid. For other operation types, the iterator
// remains valid.
type Iterator[T any] struct {
	tree *Tree[T]
	node uint32
}

// Min creates an iterator that points to the minimum item in the tree.
// If the tree is empty, returns Limit().
func (tree *Tree[T]) Min() Iterator[T] {
	return Iterator[T]{tree, tree.minNode}
}

// Max creates an iterator that points at the maximum item in the tree.
//
// If the tree is empty, returns NegativeLimit().
func (tree *Tree[T]) Max() Iterator[T] {
	if tree.maxNode == 0 {
		return Iterator[T]{tree, negativeLimitNode}
	}

	return Iterator[T]{tree, tree.maxNode}
}

// Limit creates an iterator that points beyond the maximum item in the tree.
func (tree *Tree[T]) Limit() Iterator[T] {
	return Iterator[T]{tree, 0}
}

// NegativeLimit creates an iterator that points before the minimum item in the tree.
func (tree *Tree[T]) NegativeLimit() Iterator[T] {
	return Iterator[T]{tree, negativeLimitNode}
}

// FindGE finds the smallest element N such that N >= item, and returns the
// iterator pointing to the element. If no such element is found,
// returns tree.Limit().
func (tree *Tree[T]) FindGE(item T) Iterator[T] {
	nodeIdx, _ := tree.findGE(item)

	return Iterator[T]{tree, nodeIdx}
}

// FindLE finds the largest element N such that N <= item, and returns the
// iterator pointing to the element. If no such element is found,
// returns tree.NegativeLimit().
func (tree *Tree[T]) FindLE(item T) Iterator[T] {
	nodeIdx, exact := tree.findGE(item)
	if exact {
		return Iterator[T]{tree, nodeIdx}
	}

	if nodeIdx != 0 {
		return Iterator[T]{tree, doPrev(nodeIdx, tree.storage())}
	}

	return tree.Max()
}

// Find a node whose item >= item. The 2nd return value is true iff the
// node's item equals item. Returns (0, false) if all nodes in the tree are
// less than item.
func (tree *Tree[T]) findGE(item T) (uint32, bool) {
	alloc := tree.storage()
	nodeIdx := tree.root

	for nodeIdx != 0 {
		comp := tree.compare(item, alloc[nodeIdx].item)

		switch {
		case comp == 0:
			return nodeIdx, true
		case comp < 0:
			if alloc[nodeIdx].left == 0 {
				return nodeIdx, false
			}

			nodeIdx = alloc[nodeIdx].left
		default:
			if alloc[nodeIdx].right == 0 {
				return doNext(nodeIdx, alloc), false
			}

			nodeIdx = alloc[nodeIdx].right
		}
	}

	return 0, false
}

// Equal checks for the underlying nodes equality.
func (iter Iterator[T]) Equal(other Iterator[T]) bool {
	return iter.node == other.node
}

// Limit checks if the iterator points beyond the max element in the tree.
func (iter Iterator[T]) Limit() bool {
	return iter.node == 0
}

// Min checks if the iterator points to the minimum element in the tree.
func (iter Iterator[T]) Min() bool {
	return iter.node == iter.tree.minNode
}

// Max checks if the iterator points to the maximum element in the tree.
func (iter Iterator[T]) Max() bool {
	return iter.node == iter.tree.maxNode
}

// NegativeLimit checks if the iterator points before the minimum element in the tree.
func (iter Iterator[T]) NegativeLimit() bool {
	return iter.node == negativeLimitNode
}

// Item returns the current element.
//
// The second result is false if iter.Limit() || iter.NegativeLimit().
func (iter Iterator[T]) Item() (T, bool) {
	if iter.Limit() || iter.NegativeLimit() {
		var zero T

		return zero, false
	}

	return iter.tree.storage()[iter.node].item, true
}

// Index returns the rank of the current element, -1 past either end.
func (iter Iterator[T]) Index() int {
	if iter.Limit() || iter.NegativeLimit() {
		return -1
	}

	alloc := iter.tree.storage()
	nodeIdx := iter.node
	rank := int(subtreeSize(alloc[nodeIdx].left, alloc))

	for alloc[nodeIdx].parent != 0 {
		if isRightChild(nodeIdx, alloc) {
			rank += int(subtreeSize(alloc[alloc[nodeIdx].parent].left, alloc)) + 1
		}

		nodeIdx = alloc[nodeIdx].parent
	}

	return rank
}

// Next creates a new iterator that points to the successor of the current element.
//
// REQUIRES: !iter.Limit().
func (iter Iterator[T]) Next() Iterator[T] {
	doAssert(!iter.Limit())

	if iter.NegativeLimit() {
		return Iterator[T]{iter.tree, iter.tree.minNode}
	}

	return Iterator[T]{iter.tree, doNext(iter.node, iter.tree.storage())}
}

// Prev creates a new iterator that points to the predecessor of the current
// node.
//
// REQUIRES: !iter.NegativeLimit().
func (iter Iterator[T]) Prev() Iterator[T] {
	doAssert(!iter.NegativeLimit())

	if !iter.Limit() {
		return Iterator[T]{iter.tree, doPrev(iter.node, iter.tree.storage())}
	}

	return iter.tree.Max()
}
