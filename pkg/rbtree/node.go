package rbtree

import "math"

const (
	red               = false
	black             = true
	negativeLimitNode = math.MaxUint32
)

type node[T any] struct {
	item                T
	parent, left, right uint32
	// Number of descendants, not counting the node itself.
	childCount uint32
	color      bool // Black or red.
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}

// Internal node attribute accessors.
func getColor[T any](nodeIdx uint32, allocator []node[T]) bool {
	if nodeIdx == 0 {
		return black
	}

	return allocator[nodeIdx].color
}

// Number of nodes in the subtree rooted at nodeIdx.
func subtreeSize[T any](nodeIdx uint32, allocator []node[T]) uint32 {
	if nodeIdx == 0 {
		return 0
	}

	return allocator[nodeIdx].childCount + 1
}

func isLeftChild[T any](nodeIdx uint32, allocator []node[T]) bool {
	return nodeIdx == allocator[allocator[nodeIdx].parent].left
}

func isRightChild[T any](nodeIdx uint32, allocator []node[T]) bool {
	return nodeIdx == allocator[allocator[nodeIdx].parent].right
}

func leftmost[T any](nodeIdx uint32, allocator []node[T]) uint32 {
	for allocator[nodeIdx].left != 0 {
		nodeIdx = allocator[nodeIdx].left
	}

	return nodeIdx
}

func rightmost[T any](nodeIdx uint32, allocator []node[T]) uint32 {
	for allocator[nodeIdx].right != 0 {
		nodeIdx = allocator[nodeIdx].right
	}

	return nodeIdx
}

// Return the minimum node that's larger than N. Return 0 if no such
// node is found.
func doNext[T any](nodeIdx uint32, allocator []node[T]) uint32 {
	if allocator[nodeIdx].right != 0 {
		return leftmost(allocator[nodeIdx].right, allocator)
	}

	for nodeIdx != 0 {
		parentIdx := allocator[nodeIdx].parent
		if parentIdx == 0 {
			return 0
		}

		if isLeftChild(nodeIdx, allocator) {
			return parentIdx
		}

		nodeIdx = parentIdx
	}

	return 0
}

// Return the maximum node that's smaller than N. Return negativeLimitNode
// if no such node is found.
func doPrev[T any](nodeIdx uint32, allocator []node[T]) uint32 {
	if allocator[nodeIdx].left != 0 {
		return rightmost(allocator[nodeIdx].left, allocator)
	}

	for nodeIdx != 0 {
		parentIdx := allocator[nodeIdx].parent
		if parentIdx == 0 {
			break
		}

		if isRightChild(nodeIdx, allocator) {
			return parentIdx
		}

		nodeIdx = parentIdx
	}

	return negativeLimitNode
}
