package rbtree

import "fmt"

// Set is not supported: the rank of an item follows from the comparator.
func (tree *Tree[T]) Set(index int, _ T) error {
	return fmt.Errorf("%w: set at index %d", ErrUnsupported, index)
}

// Insert is not supported: the rank of an item follows from the comparator.
// Use Add.
func (tree *Tree[T]) Insert(index int, _ T) error {
	return fmt.Errorf("%w: insert at index %d", ErrUnsupported, index)
}

// RemoveAt deletes the item of rank index and returns it.
func (tree *Tree[T]) RemoveAt(index int) (T, error) {
	nodeIdx, err := tree.nodeAt(index)
	if err != nil {
		var zero T

		return zero, err
	}

	item := tree.storage()[nodeIdx].item
	tree.doDelete(nodeIdx)

	return item, nil
}
