package pagepool

import (
	"fmt"
	"math/bits"
	"os"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/segflow/memblock/internal/hostalloc"
)

const (
	defaultMinChunkSize = 1
	defaultMaxChunkSize = 1024
)

// logAcquire gates verbose growth logging, toggled the same way
// hive/alloc gates its allocation logging: an env var checked once.
var logAcquire = os.Getenv("MEMBLOCK_LOG_ACQUIRE") != ""

// Config parameterizes a Pool.
type Config struct {
	// BlockSize is the exact size of every chunk this pool hands out. It
	// must be >= the host page size and a multiple of it.
	BlockSize int

	// MinChunkSize and MaxChunkSize bound the retained-chunk slice's
	// capacity reserve (in chunks), not the growth step per call: each
	// Acquire always produces exactly one chunk. Zero means "use the
	// package default".
	MinChunkSize int
	MaxChunkSize int
}

// Pool owns a growing collection of page-aligned chunks, all of identical
// size, each allocated separately from the host.
type Pool struct {
	blockSize    int
	minChunkSize int
	maxChunkSize int

	mu     sync.Mutex // guards chunks; growth only, never held during host allocation
	chunks []unsafe.Pointer

	blocksAllocated atomic.Int64
}

// New validates cfg and constructs an empty Pool. The chunk slice's
// capacity is reserved up front to nearestPowerOfTwo(1+log2(maxChunkSize));
// Acquire calls beyond that capacity grow the slice by append, under the
// growth mutex.
func New(cfg Config) (*Pool, error) {
	if cfg.BlockSize < hostalloc.PageSize || cfg.BlockSize%hostalloc.PageSize != 0 {
		return nil, fmt.Errorf("%w: block size %d must be a multiple of the page size (%d)",
			ErrConfigurationInvalid, cfg.BlockSize, hostalloc.PageSize)
	}

	minChunks := cfg.MinChunkSize
	if minChunks == 0 {
		minChunks = defaultMinChunkSize
	}
	maxChunks := cfg.MaxChunkSize
	if maxChunks == 0 {
		maxChunks = defaultMaxChunkSize
	}
	if maxChunks < minChunks || minChunks < 1 {
		return nil, fmt.Errorf("%w: max chunk size %d must be >= min chunk size %d >= 1",
			ErrConfigurationInvalid, maxChunks, minChunks)
	}

	p := &Pool{
		blockSize:    cfg.BlockSize,
		minChunkSize: minChunks,
		maxChunkSize: maxChunks,
	}
	reserve := nearestPowerOfTwo(1 + log2(maxChunks))
	p.chunks = make([]unsafe.Pointer, 0, reserve)
	if logAcquire {
		fmt.Fprintf(os.Stderr, "pagepool: block size %d bytes (%d pages), reserve capacity %d\n",
			cfg.BlockSize, cfg.BlockSize/hostalloc.PageSize, reserve)
	}
	return p, nil
}

// BlockSize returns the fixed chunk size this pool hands out.
func (p *Pool) BlockSize() int { return p.blockSize }

// Acquire allocates a fresh page-aligned chunk of exactly BlockSize bytes
// from the host, retains it for the pool's lifetime, and returns it.
// Host allocation happens outside the growth mutex; only the slice append
// is serialized.
func (p *Pool) Acquire() (unsafe.Pointer, error) {
	chunk, err := hostalloc.AllocPage(p.blockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}

	p.mu.Lock()
	p.chunks = append(p.chunks, chunk)
	p.mu.Unlock()

	p.blocksAllocated.Add(1)
	if logAcquire {
		fmt.Fprintf(os.Stderr, "pagepool: acquired chunk %p (total %d)\n", chunk, p.blocksAllocated.Load())
	}
	return chunk, nil
}

// Stats reports the number of chunks currently retained and the running
// count of successful Acquire calls. This is the running leak-tracking
// counter the spec's Non-goals permit (precise leak tracking is excluded,
// a running counter is not).
func (p *Pool) Stats() (chunks int, blocksAllocated int64) {
	p.mu.Lock()
	n := len(p.chunks)
	p.mu.Unlock()
	return n, p.blocksAllocated.Load()
}

// Close frees every retained chunk, in acquisition order. The caller must
// ensure no other goroutine is concurrently calling Acquire or using any
// chunk returned by this pool; thread-safe destruction of a live pool is
// out of scope (spec Non-goals).
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for _, chunk := range p.chunks {
		if err := hostalloc.FreePage(chunk, p.blockSize); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.chunks = nil
	return firstErr
}

// log2 returns floor(log2(n)) for n >= 1.
func log2(n int) int {
	return bits.Len(uint(n)) - 1
}

// nearestPowerOfTwo returns the smallest power of two >= n.
func nearestPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
