package rbtree

// rotateDirection performs a tree rotation in the specified direction.
// IsLeft=true performs left rotation, isLeft=false performs right rotation.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
// The child takes over the pivot's whole subtree, so it inherits the pivot's
// childCount. The pivot loses the child and the child's outer subtree (C on
// the left rotation, A on the right one).
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func (tree *Tree[T]) rotateDirection(pivot uint32, isLeft bool) {
	alloc := tree.storage()

	// Get the child in the opposite direction of rotation.
	var child uint32
	if isLeft {
		child = alloc[pivot].right
	} else {
		child = alloc[pivot].left
	}

	doAssert(child != 0)

	// Move the inner subtree.
	var innerSubtree, outerSubtree uint32
	if isLeft {
		innerSubtree = alloc[child].left
		outerSubtree = alloc[child].right
		alloc[pivot].right = innerSubtree
	} else {
		innerSubtree = alloc[child].right
		outerSubtree = alloc[child].left
		alloc[pivot].left = innerSubtree
	}

	if innerSubtree != 0 {
		alloc[innerSubtree].parent = pivot
	}

	// Update parent links.
	tree.replaceNode(pivot, child)

	// Complete the rotation.
	if isLeft {
		alloc[child].left = pivot
	} else {
		alloc[child].right = pivot
	}

	alloc[pivot].parent = child

	alloc[child].childCount = alloc[pivot].childCount
	alloc[pivot].childCount -= subtreeSize(outerSubtree, alloc) + 1

	tree.stats.Rotations++
}

func (tree *Tree[T]) rotateLeft(nodeIdx uint32) {
	tree.rotateDirection(nodeIdx, true)
}

func (tree *Tree[T]) rotateRight(nodeIdx uint32) {
	tree.rotateDirection(nodeIdx, false)
}
