package rbtree

import "fmt"

type validateFrame struct {
	nodeIdx uint32
	blacks  int
}

// Validate checks every structural invariant of the tree and returns an
// error wrapping ErrCorrupted describing the first violation found:
//   - the root is black and has no parent;
//   - no red node has a red child;
//   - all paths from the root to a nil link hold the same number of black nodes;
//   - parent links mirror child links;
//   - every childCount equals the sizes of the two child subtrees;
//   - the in-order walk is strictly increasing and visits Len() nodes;
//   - the cached minimum and maximum nodes are the ends of that walk.
//
// It runs in O(n) and is meant for tests and diagnostics.
func (tree *Tree[T]) Validate() error {
	if tree.root == 0 {
		if tree.minNode != 0 || tree.maxNode != 0 {
			return fmt.Errorf("%w: empty tree caches min %d max %d", ErrCorrupted, tree.minNode, tree.maxNode)
		}

		return nil
	}

	alloc := tree.storage()

	if alloc[tree.root].color != black {
		return fmt.Errorf("%w: root %d is red", ErrCorrupted, tree.root)
	}

	if alloc[tree.root].parent != 0 {
		return fmt.Errorf("%w: root %d has parent %d", ErrCorrupted, tree.root, alloc[tree.root].parent)
	}

	err := tree.validateStructure()
	if err != nil {
		return err
	}

	return tree.validateOrder()
}

// Depth-first pass over links, colors and counts.
//
//nolint:gocognit // every per-node invariant lives in one loop.
func (tree *Tree[T]) validateStructure() error {
	alloc := tree.storage()
	count := tree.Len()
	blackHeight := -1
	visited := 0
	stack := []validateFrame{{nodeIdx: tree.root, blacks: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited > count {
			return fmt.Errorf("%w: more than %d reachable nodes", ErrCorrupted, count)
		}

		nd := &alloc[top.nodeIdx]

		blacks := top.blacks
		if nd.color == black {
			blacks++
		}

		want := subtreeSize(nd.left, alloc) + subtreeSize(nd.right, alloc)
		if nd.childCount != want {
			return fmt.Errorf("%w: node %d counts %d descendants, has %d",
				ErrCorrupted, top.nodeIdx, nd.childCount, want)
		}

		for _, child := range [2]uint32{nd.left, nd.right} {
			if child == 0 {
				if blackHeight < 0 {
					blackHeight = blacks
				} else if blacks != blackHeight {
					return fmt.Errorf("%w: black height %d below node %d, expected %d",
						ErrCorrupted, blacks, top.nodeIdx, blackHeight)
				}

				continue
			}

			if alloc[child].parent != top.nodeIdx {
				return fmt.Errorf("%w: child %d of %d points to parent %d",
					ErrCorrupted, child, top.nodeIdx, alloc[child].parent)
			}

			if nd.color == red && alloc[child].color == red {
				return fmt.Errorf("%w: red node %d has red child %d", ErrCorrupted, top.nodeIdx, child)
			}

			stack = append(stack, validateFrame{nodeIdx: child, blacks: blacks})
		}
	}

	if visited != count {
		return fmt.Errorf("%w: %d reachable nodes, expected %d", ErrCorrupted, visited, count)
	}

	return nil
}

// In-order pass over the item order and the cached extremes.
func (tree *Tree[T]) validateOrder() error {
	alloc := tree.storage()

	first := leftmost(tree.root, alloc)
	if first != tree.minNode {
		return fmt.Errorf("%w: min node is %d, cached %d", ErrCorrupted, first, tree.minNode)
	}

	visited := 0
	prev := uint32(0)

	for nodeIdx := first; nodeIdx != 0; nodeIdx = doNext(nodeIdx, alloc) {
		if prev != 0 && tree.compare(alloc[prev].item, alloc[nodeIdx].item) >= 0 {
			return fmt.Errorf("%w: nodes %d and %d out of order", ErrCorrupted, prev, nodeIdx)
		}

		visited++
		prev = nodeIdx
	}

	if visited != tree.Len() {
		return fmt.Errorf("%w: in-order walk visits %d nodes, expected %d", ErrCorrupted, visited, tree.Len())
	}

	if prev != tree.maxNode {
		return fmt.Errorf("%w: max node is %d, cached %d", ErrCorrupted, prev, tree.maxNode)
	}

	return nil
}
