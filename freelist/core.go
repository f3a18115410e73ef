package freelist

import (
	"sync/atomic"
	"unsafe"

	"github.com/segflow/memblock/internal/tagptr"
)

// Core is a lock-free LIFO free list over intrusive tagptr.Node headers.
// The zero value is not ready for use; construct with NewCore.
type Core struct {
	head atomic.Uint64 // encodes a tagptr.Word
}

// NewCore returns an empty free list.
func NewCore() *Core {
	c := &Core{}
	c.head.Store(uint64(tagptr.EndOfList))
	return c
}

// Initialize sets the list to a single pre-existing chain starting at
// head, with tag 0. Used only by Mapped-style callers that start life
// pointing at the base of a region rather than empty; must happen-before
// any concurrent Pop/Push.
func (c *Core) Initialize(head *tagptr.Node) {
	c.head.Store(uint64(tagptr.Encode(head, 0)))
}

func loadNext(n *tagptr.Node) unsafe.Pointer {
	return atomic.LoadPointer(&n.Next)
}

// Pop removes and returns the front node. ok is false if the list was
// observed empty; it is never true with a nil node.
func (c *Core) Pop() (node *tagptr.Node, ok bool) {
	cur := tagptr.Word(c.head.Load())
	for !cur.Empty() {
		next := cur.Next(loadNext)
		if c.head.CompareAndSwap(uint64(cur), uint64(next)) {
			return cur.Ptr(), true
		}
		cur = tagptr.Word(c.head.Load())
	}
	return nil, false
}

// Push returns node to the front of the list. The tag is carried over
// from the current head unchanged; only Pop advances it.
func (c *Core) Push(node *tagptr.Node) {
	cur := tagptr.Word(c.head.Load())
	for {
		atomic.StorePointer(&node.Next, unsafe.Pointer(cur.Ptr()))
		next := tagptr.Encode(node, cur.Tag())
		if c.head.CompareAndSwap(uint64(cur), uint64(next)) {
			return
		}
		cur = tagptr.Word(c.head.Load())
	}
}

// IsEmpty reports whether the list currently has no free nodes. Racy by
// nature on a concurrently-modified list; Anon uses it only while holding
// its refill mutex, where it is meaningful (no refill can be in flight
// concurrently).
func (c *Core) IsEmpty() bool {
	return tagptr.Word(c.head.Load()).Empty()
}

// spliceFreshChain publishes a chain of brand-new nodes (never before on
// this list) as the new front, with the chain's tail linked to whatever
// is currently the head. The new head's tag is reset to zero: these
// nodes have never been on the list, so there is no ABA hazard in reusing
// tag 0 regardless of the current tag value.
func (c *Core) spliceFreshChain(first, last *tagptr.Node) {
	for {
		cur := tagptr.Word(c.head.Load())
		atomic.StorePointer(&last.Next, unsafe.Pointer(cur.Ptr()))
		next := tagptr.Encode(first, 0)
		if c.head.CompareAndSwap(uint64(cur), uint64(next)) {
			return
		}
	}
}
