package freelist

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSupplier hands out aligned chunks and counts how many it produced,
// standing in for a pagepool.Pool in these tests.
type fakeSupplier struct {
	chunkSize uintptr
	blockSize uintptr
	chunks    atomic.Int64
	fail      bool
}

func (s *fakeSupplier) refill(a *Anon) RefillFunc {
	return func() bool {
		if s.fail {
			return false
		}
		n := int(s.chunkSize / testBlockSize)
		chunk := newAlignedChunk(n)
		s.chunks.Add(1)
		a.AddBlock(chunk, s.chunkSize, s.blockSize)
		return true
	}
}

func TestAnon_RefillsWhenEmpty(t *testing.T) {
	a := NewAnon()
	s := &fakeSupplier{chunkSize: testBlockSize * 4, blockSize: testBlockSize}

	ptr, ok := a.Allocate(s.refill(a))
	require.True(t, ok)
	require.NotNil(t, ptr)
	assert.EqualValues(t, 1, s.chunks.Load())

	// 3 more blocks available from the same chunk, no further refill.
	for i := 0; i < 3; i++ {
		_, ok := a.Allocate(s.refill(a))
		require.True(t, ok)
	}
	assert.EqualValues(t, 1, s.chunks.Load())

	// 5th allocation needs a second chunk.
	_, ok = a.Allocate(s.refill(a))
	require.True(t, ok)
	assert.EqualValues(t, 2, s.chunks.Load())
}

func TestAnon_RefillFailureReturnsOutOfMemory(t *testing.T) {
	a := NewAnon()
	s := &fakeSupplier{chunkSize: testBlockSize * 4, blockSize: testBlockSize, fail: true}

	ptr, ok := a.Allocate(s.refill(a))
	assert.False(t, ok)
	assert.Nil(t, ptr)
}

// TestAnon_AddBlockMinimumTwoBlocks checks that chunk_size / block_size
// == 2, the smallest allowed ratio, still produces a well-formed 2-node
// list.
func TestAnon_AddBlockMinimumTwoBlocks(t *testing.T) {
	a := NewAnon()
	chunk := newAlignedChunk(2)
	a.AddBlock(chunk, testBlockSize*2, testBlockSize)

	first, ok := a.core.Pop()
	require.True(t, ok)
	second, ok := a.core.Pop()
	require.True(t, ok)
	assert.NotEqual(t, first, second)
	_, ok = a.core.Pop()
	assert.False(t, ok)
}

func TestAnon_AddBlockPanicsBelowMinimum(t *testing.T) {
	a := NewAnon()
	chunk := newAlignedChunk(1)
	assert.Panics(t, func() {
		a.AddBlock(chunk, testBlockSize, testBlockSize)
	})
}

// TestAnon_RoundTripRestoresCount checks that N allocate calls followed
// by deallocate of the same N pointers puts all N blocks back on the
// list: exactly N pops then succeed before it is empty again.
func TestAnon_RoundTripRestoresCount(t *testing.T) {
	a := NewAnon()
	s := &fakeSupplier{chunkSize: testBlockSize * 8, blockSize: testBlockSize}

	var ptrs []unsafe.Pointer
	for i := 0; i < 8; i++ {
		ptr, ok := a.Allocate(s.refill(a))
		require.True(t, ok)
		ptrs = append(ptrs, ptr)
	}
	assert.True(t, a.core.IsEmpty())

	for _, ptr := range ptrs {
		a.Deallocate(ptr)
	}
	assert.False(t, a.core.IsEmpty())

	for range ptrs {
		_, ok := a.core.Pop()
		require.True(t, ok)
	}
	assert.True(t, a.core.IsEmpty())
}

// TestAnon_ConcurrentRefillOnlyRacesOnce checks that concurrent allocators
// hitting an empty list only trigger one refill; the others observe the
// re-check under the mutex and retry the lock-free path instead.
func TestAnon_ConcurrentRefillOnlyRacesOnce(t *testing.T) {
	a := NewAnon()
	s := &fakeSupplier{chunkSize: testBlockSize * 16, blockSize: testBlockSize}

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	results := make([]unsafe.Pointer, workers)
	for i := 0; i < workers; i++ {
		i := i
		go func() {
			defer wg.Done()
			ptr, ok := a.Allocate(s.refill(a))
			require.True(t, ok)
			results[i] = ptr
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, s.chunks.Load())
	seen := map[unsafe.Pointer]bool{}
	for _, ptr := range results {
		require.False(t, seen[ptr])
		seen[ptr] = true
	}
}
