package rbtree

import "iter"

// Enumerator walks a tree in ascending order, one item per MoveNext.
//
// It holds no stack: the successor of a node is the leftmost node of its
// right subtree or, failing that, the first ancestor reached from a left
// child. The tree must not be modified while an enumeration is in progress.
type Enumerator[T any] struct {
	tree    *Tree[T]
	current uint32
	reset   bool
}

// Enumerator returns an enumerator positioned before the first item.
func (tree *Tree[T]) Enumerator() *Enumerator[T] {
	return &Enumerator[T]{tree: tree, current: 0, reset: true}
}

// MoveNext advances to the next item and reports whether there is one.
// Once it returns false it keeps returning false until Reset.
func (en *Enumerator[T]) MoveNext() bool {
	if en.reset {
		en.reset = false
		en.current = en.tree.minNode

		return en.current != 0
	}

	if en.current == 0 {
		return false
	}

	en.current = doNext(en.current, en.tree.storage())

	return en.current != 0
}

// Current returns the item under the enumerator. It returns the zero value
// before the first MoveNext and after the last one.
func (en *Enumerator[T]) Current() T {
	if en.reset || en.current == 0 {
		var zero T

		return zero
	}

	return en.tree.storage()[en.current].item
}

// Reset positions the enumerator before the first item again.
func (en *Enumerator[T]) Reset() {
	en.current = 0
	en.reset = true
}

// All returns the items in ascending order.
func (tree *Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		en := tree.Enumerator()
		for en.MoveNext() {
			if !yield(en.Current()) {
				return
			}
		}
	}
}

// Indexed returns the items in ascending order together with their ranks.
func (tree *Tree[T]) Indexed() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		index := 0

		for item := range tree.All() {
			if !yield(index, item) {
				return
			}

			index++
		}
	}
}

// Backward returns the items in descending order.
func (tree *Tree[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it := tree.Max(); !it.NegativeLimit(); it = it.Prev() {
			item, _ := it.Item()
			if !yield(item) {
				return
			}
		}
	}
}

// Items returns a sorted copy of the stored items.
func (tree *Tree[T]) Items() []T {
	items := make([]T, 0, tree.Len())
	for item := range tree.All() {
		items = append(items, item)
	}

	return items
}
