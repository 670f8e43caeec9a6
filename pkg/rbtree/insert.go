package rbtree

// Try inserting "item" into the tree. Return the existing node and false if
// an equal item is already in the tree. Otherwise return the new node and true.
func (tree *Tree[T]) insert(item T) (uint32, bool) {
	parent, exact := tree.findOrParent(item)
	if exact {
		return parent, false
	}

	nodeIdx := tree.allocator.malloc()
	// malloc may have grown the storage.
	alloc := tree.storage()
	newNode := &alloc[nodeIdx]
	newNode.item = item
	newNode.parent = parent
	newNode.left = 0
	newNode.right = 0
	newNode.childCount = 0
	newNode.color = red

	if parent == 0 {
		tree.root = nodeIdx
		tree.minNode = nodeIdx
		tree.maxNode = nodeIdx
	} else {
		if tree.compare(item, alloc[parent].item) < 0 {
			alloc[parent].left = nodeIdx

			if parent == tree.minNode {
				tree.minNode = nodeIdx
			}
		} else {
			alloc[parent].right = nodeIdx

			if parent == tree.maxNode {
				tree.maxNode = nodeIdx
			}
		}

		for ancestor := parent; ancestor != 0; ancestor = alloc[ancestor].parent {
			alloc[ancestor].childCount++
		}
	}

	tree.insertFixup(nodeIdx)

	return nodeIdx, true
}

// Restore the red-black properties after attaching the red node N.
func (tree *Tree[T]) insertFixup(nodeIdx uint32) {
	alloc := tree.storage()

	for {
		parent := alloc[nodeIdx].parent

		// Case 1: N is at the root.
		// Case 2: the parent is black, so the tree already
		// satisfies the RB properties.
		if parent == 0 || alloc[parent].color == black {
			break
		}

		tree.stats.InsertFixups++

		// A red parent is never the root.
		grandparent := alloc[parent].parent
		parentIsLeft := alloc[grandparent].left == parent

		var uncle uint32
		if parentIsLeft {
			uncle = alloc[grandparent].right
		} else {
			uncle = alloc[grandparent].left
		}

		// Case 3: parent and uncle are both red.
		// Then paint both black and make grandparent red.
		if getColor(uncle, alloc) == red {
			alloc[parent].color = black
			alloc[uncle].color = black
			alloc[grandparent].color = red
			nodeIdx = grandparent

			continue
		}

		// Case 4: N is an inner grandchild; turn it into an outer one.
		if parentIsLeft && nodeIdx == alloc[parent].right {
			tree.rotateLeft(parent)
			parent = nodeIdx
		} else if !parentIsLeft && nodeIdx == alloc[parent].left {
			tree.rotateRight(parent)
			parent = nodeIdx
		}

		// Case 5: N is an outer grandchild.
		alloc[parent].color = black
		alloc[grandparent].color = red

		if parentIsLeft {
			tree.rotateRight(grandparent)
		} else {
			tree.rotateLeft(grandparent)
		}

		break
	}

	alloc[tree.root].color = black
}
