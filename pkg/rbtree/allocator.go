package rbtree

// growCapacityNumerator and growCapacityDenominator define the 3/2 growth factor for storage.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
)

// Allocator is the arena holding the nodes of one or more trees.
//
// Nodes are addressed by uint32 index. Slot #0 is reserved and acts as the nil
// reference, so a zero parent, left or right link means "no node".
// Released slots are kept on a free list and reused by later allocations.
type Allocator[T any] struct {
	storage []node[T]
	gaps    []uint32
}

// NewAllocator creates a new allocator for tree nodes.
func NewAllocator[T any]() *Allocator[T] {
	return &Allocator[T]{
		storage: []node[T]{},
		gaps:    []uint32{},
	}
}

// Size returns the currently allocated size.
func (allocator *Allocator[T]) Size() int {
	return len(allocator.storage)
}

// Used returns the number of nodes contained in the allocator.
func (allocator *Allocator[T]) Used() int {
	return len(allocator.storage) - len(allocator.gaps)
}

// Clone copies an existing allocator.
func (allocator *Allocator[T]) Clone() *Allocator[T] {
	capSize := cap(allocator.storage)
	if capSize < len(allocator.storage) {
		capSize = len(allocator.storage)
	}

	newAllocator := &Allocator[T]{
		storage: make([]node[T], len(allocator.storage), capSize),
		gaps:    make([]uint32, len(allocator.gaps)),
	}
	copy(newAllocator.storage, allocator.storage)
	copy(newAllocator.gaps, allocator.gaps)

	return newAllocator
}

// Reserve grows the storage capacity so that at least n more nodes can be
// allocated without reallocating the arena.
func (allocator *Allocator[T]) Reserve(n int) {
	free := cap(allocator.storage) - len(allocator.storage) + len(allocator.gaps)
	if n <= free {
		return
	}

	capSize := ((len(allocator.storage) + n) * growCapacityNumerator) / growCapacityDenominator
	grown := make([]node[T], len(allocator.storage), capSize)
	copy(grown, allocator.storage)
	allocator.storage = grown
}

func (allocator *Allocator[T]) malloc() uint32 {
	if gapsLen := len(allocator.gaps); gapsLen > 0 {
		nodeIdx := allocator.gaps[gapsLen-1]
		allocator.gaps = allocator.gaps[:gapsLen-1]

		return nodeIdx
	}

	nodeLen := len(allocator.storage)
	if nodeLen == 0 {
		// Zero is reserved.
		allocator.storage = append(allocator.storage, node[T]{})
		nodeLen = 1
	}

	if uint64(nodeLen) >= negativeLimitNode {
		// [math.MaxUint32] is reserved.
		panic("the size of the tree allocator has reached the maximum value for uint32")
	}

	allocator.storage = append(allocator.storage, node[T]{})

	return uint32(nodeLen)
}

func (allocator *Allocator[T]) free(nodeIdx uint32) {
	if nodeIdx == 0 {
		panic("node #0 is special and cannot be deallocated")
	}

	doAssert(int(nodeIdx) < len(allocator.storage))

	// Drop the item so the arena does not keep it reachable.
	allocator.storage[nodeIdx] = node[T]{}
	allocator.gaps = append(allocator.gaps, nodeIdx)
}
