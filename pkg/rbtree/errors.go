package rbtree

import "errors"

// Sentinel errors returned by tree operations.
var (
	// ErrDuplicateKey is returned by AddUnique when an equal item is already stored.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrIndexOutOfRange is returned for rank accesses outside [0, Len()).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnsupported is returned by the positional writes. Order is defined by
	// the comparator, so items cannot be placed at an index.
	ErrUnsupported = errors.New("operation not supported on a sorted tree")

	// ErrCorrupted is returned by Validate when a structural invariant is broken.
	ErrCorrupted = errors.New("tree invariant violated")
)
