package rbtree

import "fmt"

// CountBefore returns the number of stored items strictly less than item.
func (tree *Tree[T]) CountBefore(item T) int {
	return tree.countBefore(item, false)
}

// CountAtAndBefore returns the number of stored items less than or equal to item.
func (tree *Tree[T]) CountAtAndBefore(item T) int {
	return tree.countBefore(item, true)
}

// CountAfter returns the number of stored items strictly greater than item.
func (tree *Tree[T]) CountAfter(item T) int {
	return tree.countAfter(item, false)
}

// CountAtAndAfter returns the number of stored items greater than or equal to item.
func (tree *Tree[T]) CountAtAndAfter(item T) int {
	return tree.countAfter(item, true)
}

// IndexOf returns the 0-based rank of item, or -1 if it is not stored.
func (tree *Tree[T]) IndexOf(item T) int {
	alloc := tree.storage()
	rank := 0
	nodeIdx := tree.root

	for nodeIdx != 0 {
		comp := tree.compare(item, alloc[nodeIdx].item)

		switch {
		case comp == 0:
			return rank + int(subtreeSize(alloc[nodeIdx].left, alloc))
		case comp < 0:
			nodeIdx = alloc[nodeIdx].left
		default:
			rank += int(subtreeSize(alloc[nodeIdx].left, alloc)) + 1
			nodeIdx = alloc[nodeIdx].right
		}
	}

	return -1
}

// At returns the item at the 0-based rank index.
func (tree *Tree[T]) At(index int) (T, error) {
	nodeIdx, err := tree.nodeAt(index)
	if err != nil {
		var zero T

		return zero, err
	}

	return tree.storage()[nodeIdx].item, nil
}

// Every node whose item precedes the target (or equals it, when inclusive)
// contributes itself and its left subtree.
func (tree *Tree[T]) countBefore(item T, inclusive bool) int {
	alloc := tree.storage()
	total := 0
	nodeIdx := tree.root

	for nodeIdx != 0 {
		comp := tree.compare(alloc[nodeIdx].item, item)
		if comp < 0 || (comp == 0 && inclusive) {
			total += int(subtreeSize(alloc[nodeIdx].left, alloc)) + 1
			nodeIdx = alloc[nodeIdx].right
		} else {
			nodeIdx = alloc[nodeIdx].left
		}
	}

	return total
}

func (tree *Tree[T]) countAfter(item T, inclusive bool) int {
	alloc := tree.storage()
	total := 0
	nodeIdx := tree.root

	for nodeIdx != 0 {
		comp := tree.compare(alloc[nodeIdx].item, item)
		if comp > 0 || (comp == 0 && inclusive) {
			total += int(subtreeSize(alloc[nodeIdx].right, alloc)) + 1
			nodeIdx = alloc[nodeIdx].left
		} else {
			nodeIdx = alloc[nodeIdx].right
		}
	}

	return total
}

// Locate the node of rank index.
//
// The walk starts at the minimum node and climbs the left spine while the
// current subtree is too small to hold the target. Every subtree on that spine
// starts at rank 0. Once a large enough subtree is reached the walk turns and
// descends, tracking base, the rank of the first item of the current subtree.
// Small ranks are therefore found without visiting the root.
func (tree *Tree[T]) nodeAt(index int) (uint32, error) {
	count := tree.Len()
	if index < 0 || index >= count {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, count)
	}

	alloc := tree.storage()
	target := uint32(index)
	nodeIdx := tree.minNode
	base := uint32(0)
	turned := false

	for {
		if !turned {
			if target < subtreeSize(nodeIdx, alloc) {
				turned = true

				continue
			}

			nodeIdx = alloc[nodeIdx].parent
			doAssert(nodeIdx != 0)

			continue
		}

		leftSize := subtreeSize(alloc[nodeIdx].left, alloc)

		switch {
		case target < base+leftSize:
			nodeIdx = alloc[nodeIdx].left
		case target == base+leftSize:
			return nodeIdx, nil
		default:
			base += leftSize + 1
			nodeIdx = alloc[nodeIdx].right
		}
	}
}
