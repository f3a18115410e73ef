package freelist

import (
	"sync"
	"unsafe"

	"github.com/segflow/memblock/internal/tagptr"
)

// RefillFunc is invoked with Anon's refill mutex held. It must call
// AddBlock at least once on the same Anon before returning true; it
// returns false only when the upstream supplier is out of memory.
type RefillFunc func() bool

// Anon is a free list that refills from an upstream chunk supplier when
// its lock-free fast path finds the list empty. Only the refill path
// takes a mutex; allocate/deallocate are otherwise lock-free.
type Anon struct {
	core Core
	mu   sync.Mutex // serializes the refill path; Pop/Push never take it
}

// NewAnon returns an empty Anon free list.
func NewAnon() *Anon {
	a := &Anon{}
	a.core.head.Store(uint64(tagptr.EndOfList))
	return a
}

// Allocate pops a block, invoking refill under the refill mutex whenever
// the lock-free path finds the list empty. Returns (nil, false) if refill
// reports out of memory.
func (a *Anon) Allocate(refill RefillFunc) (unsafe.Pointer, bool) {
	for {
		if node, ok := a.core.Pop(); ok {
			return unsafe.Pointer(node), true
		}

		a.mu.Lock()
		if !a.core.IsEmpty() {
			// Another goroutine refilled while we waited for the lock.
			a.mu.Unlock()
			continue
		}
		ok := refill()
		a.mu.Unlock()
		if !ok {
			return nil, false
		}
		// refill() published at least one node via AddBlock; retry the
		// lock-free path.
	}
}

// Deallocate returns ptr to the free list.
func (a *Anon) Deallocate(ptr unsafe.Pointer) {
	a.core.Push((*tagptr.Node)(ptr))
}

// AddBlock carves chunk (chunkSize bytes) into blockSize-sized blocks and
// splices the resulting chain onto the free list. Must be called only
// from inside a RefillFunc, i.e. with the refill mutex held. Panics if
// fewer than two blocks would result.
func (a *Anon) AddBlock(chunk unsafe.Pointer, chunkSize, blockSize uintptr) {
	n := chunkSize / blockSize
	if n < 2 {
		panic("freelist: AddBlock requires at least 2 blocks per chunk")
	}

	first := (*tagptr.Node)(chunk)
	for i := uintptr(0); i < n; i++ {
		node := (*tagptr.Node)(unsafe.Add(chunk, i*blockSize))
		var next unsafe.Pointer
		if i+1 < n {
			next = unsafe.Add(chunk, (i+1)*blockSize)
		}
		node.Next = next
	}
	last := (*tagptr.Node)(unsafe.Add(chunk, (n-1)*blockSize))

	a.core.spliceFreshChain(first, last)
}
