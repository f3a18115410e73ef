package bucket

import (
	"fmt"
	"sort"
	"sync/atomic"
	"unsafe"

	"github.com/segflow/memblock/freelist"
	"github.com/segflow/memblock/internal/hostalloc"
	"github.com/segflow/memblock/internal/memerr"
	"github.com/segflow/memblock/pagepool"
)

// Resource is a process-wide, static-sized array of per-size free lists
// that routes allocate/deallocate calls by size. Requests above the
// largest bucket are passed straight through to the host allocator.
//
// The zero value is not usable until Init is called; Init must happen-
// before any Allocate/Deallocate call and must be called exactly once.
type Resource struct {
	sizes       [K]int
	lists       [K]*freelist.Anon
	pool        *pagepool.Pool
	initialized atomic.Bool
}

// Init binds every bucket to pool and sets each bucket's block size from
// the fixed size table. Must be called exactly once before first use.
func (r *Resource) Init(pool *pagepool.Pool) {
	if r.initialized.Swap(true) {
		panic("bucket: Init called more than once")
	}
	r.sizes = scaledSizeTable()
	for i := range r.lists {
		r.lists[i] = freelist.NewAnon()
	}
	r.pool = pool
}

func (r *Resource) mustBeInitialized() {
	if !r.initialized.Load() {
		panic("bucket: Allocate/Deallocate called before Init")
	}
}

// sizeToIndex returns the smallest i such that sizes[i] >= n. The caller
// must ensure n <= sizes[K-1].
func (r *Resource) sizeToIndex(n int) int {
	return sort.Search(K, func(i int) bool { return r.sizes[i] >= n })
}

// Allocate returns a block of size >= n. Requests with n <= the largest
// bucket are served from the matching segregated free list (growing the
// underlying page pool on demand); larger requests are forwarded to the
// host allocator.
func (r *Resource) Allocate(n int) (unsafe.Pointer, error) {
	r.mustBeInitialized()

	if n > r.sizes[K-1] {
		return r.allocateHost(n)
	}

	idx := r.sizeToIndex(n)
	list := r.lists[idx]
	blockSize := uintptr(r.sizes[idx])

	ptr, ok := list.Allocate(func() bool {
		chunk, err := r.pool.Acquire()
		if err != nil {
			return false
		}
		list.AddBlock(chunk, uintptr(r.pool.BlockSize()), blockSize)
		return true
	})
	if !ok {
		return nil, fmt.Errorf("%w: bucket %d (block size %d)", memerr.OutOfMemory, idx, r.sizes[idx])
	}
	return ptr, nil
}

// Deallocate returns ptr to the bucket matching n, which must equal the
// size originally passed to Allocate — the size is not recovered from
// ptr.
func (r *Resource) Deallocate(ptr unsafe.Pointer, n int) {
	r.mustBeInitialized()

	if n > r.sizes[K-1] {
		r.deallocateHost(ptr, n)
		return
	}

	idx := r.sizeToIndex(n)
	r.lists[idx].Deallocate(ptr)
}

// allocateHost and deallocateHost implement the host-allocator passthrough
// above the bucket cutoff using the same page-granular host allocation
// pagepool is built on, rounded up to a whole number of pages.
func (r *Resource) allocateHost(n int) (unsafe.Pointer, error) {
	size := hostalloc.RoundUpToPage(n)
	ptr, err := hostalloc.AllocPage(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", memerr.OutOfMemory, err)
	}
	return ptr, nil
}

func (r *Resource) deallocateHost(ptr unsafe.Pointer, n int) {
	size := hostalloc.RoundUpToPage(n)
	_ = hostalloc.FreePage(ptr, size)
}
