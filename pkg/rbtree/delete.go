package rbtree

// DeleteWithIterator deletes the current item.
//
// REQUIRES: !iter.Limit() && !iter.NegativeLimit().
func (tree *Tree[T]) DeleteWithIterator(iter Iterator[T]) {
	doAssert(!iter.Limit() && !iter.NegativeLimit())
	tree.doDelete(iter.node)
}

// Delete N from the tree.
//
// A node with two children is replaced by its in-order successor S, which is
// spliced out of its own slot first. Nodes are relinked rather than having
// their items swapped, so iterators on other nodes stay valid.
func (tree *Tree[T]) doDelete(target uint32) {
	alloc := tree.storage()

	spliced := target
	if alloc[target].left != 0 && alloc[target].right != 0 {
		spliced = leftmost(alloc[target].right, alloc)
	}

	// Every subtree above the spliced slot loses one node.
	for ancestor := alloc[spliced].parent; ancestor != 0; ancestor = alloc[ancestor].parent {
		alloc[ancestor].childCount--
	}

	removedColor := alloc[spliced].color

	// child moves into the spliced slot, possibly as the nil index, so its
	// parent is tracked separately.
	var child, childParent uint32

	if spliced == target {
		child = alloc[target].left
		if child == 0 {
			child = alloc[target].right
		}

		childParent = alloc[target].parent
		tree.replaceNode(target, child)
	} else {
		child = alloc[spliced].right

		if alloc[spliced].parent == target {
			childParent = spliced
		} else {
			childParent = alloc[spliced].parent
			tree.replaceNode(spliced, child)
			alloc[spliced].right = alloc[target].right
			alloc[alloc[spliced].right].parent = spliced
		}

		tree.replaceNode(target, spliced)
		alloc[spliced].left = alloc[target].left
		alloc[alloc[spliced].left].parent = spliced
		alloc[spliced].color = alloc[target].color
		alloc[spliced].childCount = alloc[target].childCount
	}

	if removedColor == black {
		tree.deleteFixup(child, childParent)
	}

	wasMin := tree.minNode == target
	wasMax := tree.maxNode == target

	tree.allocator.free(target)

	if wasMin {
		tree.recomputeMinNode()
	}

	if wasMax {
		tree.recomputeMaxNode()
	}
}

// Restore the red-black properties after a black node was spliced out above
// N. N carries an extra black; it may be the nil index, hence the explicit
// parent.
//
//nolint:gocognit // the four deletion cases are mirrored for both sides.
func (tree *Tree[T]) deleteFixup(nodeIdx, parent uint32) {
	alloc := tree.storage()

	for nodeIdx != tree.root && getColor(nodeIdx, alloc) == black {
		tree.stats.DeleteFixups++

		if nodeIdx == alloc[parent].left {
			sibling := alloc[parent].right
			doAssert(sibling != 0)

			// Case 1: red sibling. Rotate so that N gets a black sibling.
			if alloc[sibling].color == red {
				alloc[sibling].color = black
				alloc[parent].color = red
				tree.rotateLeft(parent)
				sibling = alloc[parent].right
			}

			// Case 2: black sibling with black children. Move the extra black up.
			if getColor(alloc[sibling].left, alloc) == black && getColor(alloc[sibling].right, alloc) == black {
				alloc[sibling].color = red
				nodeIdx = parent
				parent = alloc[nodeIdx].parent

				continue
			}

			// Case 3: the near child is red, the far one black.
			if getColor(alloc[sibling].right, alloc) == black {
				alloc[alloc[sibling].left].color = black
				alloc[sibling].color = red
				tree.rotateRight(sibling)
				sibling = alloc[parent].right
			}

			// Case 4: the far child is red.
			alloc[sibling].color = alloc[parent].color
			alloc[parent].color = black
			alloc[alloc[sibling].right].color = black
			tree.rotateLeft(parent)
			nodeIdx = tree.root

			break
		}

		sibling := alloc[parent].left
		doAssert(sibling != 0)

		// Case 1.
		if alloc[sibling].color == red {
			alloc[sibling].color = black
			alloc[parent].color = red
			tree.rotateRight(parent)
			sibling = alloc[parent].left
		}

		// Case 2.
		if getColor(alloc[sibling].left, alloc) == black && getColor(alloc[sibling].right, alloc) == black {
			alloc[sibling].color = red
			nodeIdx = parent
			parent = alloc[nodeIdx].parent

			continue
		}

		// Case 3.
		if getColor(alloc[sibling].left, alloc) == black {
			alloc[alloc[sibling].right].color = black
			alloc[sibling].color = red
			tree.rotateLeft(sibling)
			sibling = alloc[parent].left
		}

		// Case 4.
		alloc[sibling].color = alloc[parent].color
		alloc[parent].color = black
		alloc[alloc[sibling].left].color = black
		tree.rotateRight(parent)
		nodeIdx = tree.root

		break
	}

	if nodeIdx != 0 {
		alloc[nodeIdx].color = black
	}
}
