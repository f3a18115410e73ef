package freelist

import (
	"unsafe"

	"github.com/segflow/memblock/internal/tagptr"
)

// Mapped is a free list over a single fixed memory-mapped region. Unlike
// Anon it never refills: the region's tail space is lazily discovered as
// free the first time the list walks into it, so a freshly mapped (all
// zero) region never needs size/blockSize next pointers pre-threaded.
type Mapped struct {
	core      Core
	base      uintptr
	size      uintptr
	blockSize uintptr
}

// NewMapped creates a Mapped free list over [base, base+size), partitioned
// into blockSize blocks, with the list initially pointing at base.
func NewMapped(base unsafe.Pointer, size, blockSize uintptr) *Mapped {
	m := &Mapped{base: uintptr(base), size: size, blockSize: blockSize}
	m.core.Initialize((*tagptr.Node)(base))
	return m
}

// Allocate pops the front block, lazily extending into untouched tail
// space when a popped node's Next field is still the region's pristine
// zero bytes (see package freelist/doc.go).
func (m *Mapped) Allocate() (unsafe.Pointer, bool) {
	cur := tagptr.Word(m.core.head.Load())
	for !cur.Empty() {
		next := cur.Next(loadNext)
		if next.Empty() {
			next = m.lazyNext(cur)
		}
		if m.core.head.CompareAndSwap(uint64(cur), uint64(next)) {
			return unsafe.Pointer(cur.Ptr()), true
		}
		cur = tagptr.Word(m.core.head.Load())
	}
	return nil, false
}

// lazyNext computes the successor of cur by pointer arithmetic: the
// block immediately following cur in the region, or EndOfList if cur is
// the region's final block.
func (m *Mapped) lazyNext(cur tagptr.Word) tagptr.Word {
	poppedAddr := uintptr(unsafe.Pointer(cur.Ptr()))
	successor := poppedAddr + m.blockSize
	if successor >= m.base+m.size {
		return tagptr.EndOfList
	}
	return tagptr.Encode((*tagptr.Node)(unsafe.Pointer(successor)), cur.Tag()+1)
}

// Deallocate returns ptr to the free list.
func (m *Mapped) Deallocate(ptr unsafe.Pointer) {
	m.core.Push((*tagptr.Node)(ptr))
}
