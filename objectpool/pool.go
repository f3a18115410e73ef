package objectpool

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/segflow/memblock/internal/hostalloc"
	"github.com/segflow/memblock/internal/memerr"
	"github.com/segflow/memblock/internal/tagptr"
)

// Config sets a Pool's fixed object size and slab granularity.
type Config struct {
	// ObjectSize is the fixed size of every object this pool hands out.
	// It must be at least a pointer wide, matching NodeMemoryPool's
	// ASSERT(m_size >= sizeof(Next)).
	ObjectSize int

	// ObjectsPerSlab is how many objects each grow call carves from one
	// host allocation. Defaults to defaultObjectsPerSlab if <= 0.
	ObjectsPerSlab int
}

const defaultObjectsPerSlab = 64

// Pool hands out fixed-size objects from slabs grown on demand, under a
// single mutex. Unlike freelist.Anon, there is no lock-free fast path:
// this is the plain, non-lock-free sibling spec'd for the node-at-a-time
// workloads (think std::list, std::allocate_shared) that don't need one.
type Pool struct {
	mu             sync.Mutex
	objectSize     uintptr
	objectsPerSlab int
	free           unsafe.Pointer // *tagptr.Node; valid only while mu is held
	slabs          []unsafe.Pointer
	totalFree      int
}

// New validates cfg and returns an empty Pool; the first slab is grown
// lazily on the first Alloc call.
func New(cfg Config) (*Pool, error) {
	if cfg.ObjectSize <= 0 {
		return nil, fmt.Errorf("%w: object size must be positive", memerr.ConfigurationInvalid)
	}
	if uintptr(cfg.ObjectSize) < unsafe.Sizeof(tagptr.Node{}) {
		return nil, fmt.Errorf("%w: object size %d smaller than a pointer", memerr.ConfigurationInvalid, cfg.ObjectSize)
	}
	perSlab := cfg.ObjectsPerSlab
	if perSlab <= 0 {
		perSlab = defaultObjectsPerSlab
	}
	return &Pool{objectSize: uintptr(cfg.ObjectSize), objectsPerSlab: perSlab}, nil
}

// Alloc returns one object-sized block, growing a new slab first if the
// free list is empty.
func (p *Pool) Alloc() (unsafe.Pointer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.free == nil {
		if err := p.grow(); err != nil {
			return nil, err
		}
	}
	node := (*tagptr.Node)(p.free)
	p.free = node.Next
	p.totalFree--
	return unsafe.Pointer(node), nil
}

// Free returns ptr, previously returned by Alloc, to the free list.
func (p *Pool) Free(ptr unsafe.Pointer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	node := (*tagptr.Node)(ptr)
	node.Next = p.free
	p.free = unsafe.Pointer(node)
	p.totalFree++
}

// grow carves one new slab of objectsPerSlab objects and threads them
// onto the free list. Caller must hold mu.
func (p *Pool) grow() error {
	slabSize := hostalloc.RoundUpToPage(int(p.objectSize) * p.objectsPerSlab)
	chunk, err := hostalloc.AllocPage(slabSize)
	if err != nil {
		return fmt.Errorf("%w: %v", memerr.OutOfMemory, err)
	}
	p.slabs = append(p.slabs, chunk)

	n := p.objectsPerSlab
	base := uintptr(chunk)
	prevFree := p.free
	for i := n - 1; i >= 0; i-- {
		node := (*tagptr.Node)(unsafe.Pointer(base + uintptr(i)*p.objectSize))
		node.Next = prevFree
		prevFree = unsafe.Pointer(node)
	}
	p.free = prevFree
	p.totalFree += n
	return nil
}

// Stats reports the number of slabs grown so far and the count of
// objects currently on the free list.
func (p *Pool) Stats() (slabs int, totalFree int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slabs), p.totalFree
}

// Close releases every slab. It is the caller's responsibility to ensure
// no outstanding objects are still in use; per spec, thread-safe
// destruction of a live pool is out of scope.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	slabSize := hostalloc.RoundUpToPage(int(p.objectSize) * p.objectsPerSlab)
	for _, s := range p.slabs {
		_ = hostalloc.FreePage(s, slabSize)
	}
	p.slabs = nil
	p.free = nil
	p.totalFree = 0
	return nil
}
