package bucket

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segflow/memblock/pagepool"
)

func newTestResource(t *testing.T, blockSize int) (*Resource, *pagepool.Pool) {
	t.Helper()
	pool, err := pagepool.New(pagepool.Config{BlockSize: blockSize})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	var res Resource
	res.Init(pool)
	return &res, pool
}

// TestAllocate_ReusesChunkAcrossShuffledDeallocs: 500 requests of 24
// bytes land in the 64-byte bucket, all distinct, served from a single
// acquired chunk; freeing them in shuffled order and reallocating the
// same count must not acquire a second chunk.
func TestAllocate_ReusesChunkAcrossShuffledDeallocs(t *testing.T) {
	res, pool := newTestResource(t, 32768)

	var ptrs []unsafe.Pointer
	for i := 0; i < 500; i++ {
		ptr, err := res.Allocate(24)
		require.NoError(t, err)
		ptrs = append(ptrs, ptr)
	}

	seen := map[unsafe.Pointer]bool{}
	for _, ptr := range ptrs {
		assert.False(t, seen[ptr])
		seen[ptr] = true
	}

	chunksAfterFirstRound, _ := pool.Stats()
	assert.Equal(t, 1, chunksAfterFirstRound)

	rand.Shuffle(len(ptrs), func(i, j int) { ptrs[i], ptrs[j] = ptrs[j], ptrs[i] })
	for _, ptr := range ptrs {
		res.Deallocate(ptr, 24)
	}

	for i := 0; i < 500; i++ {
		_, err := res.Allocate(24)
		require.NoError(t, err)
	}

	chunksAfterSecondRound, _ := pool.Stats()
	assert.Equal(t, chunksAfterFirstRound, chunksAfterSecondRound)
}

// TestSizeToIndex_RoutesToExpectedBucket checks a 64-bit pointer width:
// n=3600 must land in bucket 11 (S_11 = 8*451 = 3608).
func TestSizeToIndex_RoutesToExpectedBucket(t *testing.T) {
	if pointerWidth != 8 {
		t.Skip("assumes a 64-bit pointer width")
	}
	res, _ := newTestResource(t, 32768)
	assert.Equal(t, 11, res.sizeToIndex(3600))
}

// TestAllocate_AboveCutoffBypassesBuckets checks a 64-bit pointer width.
func TestAllocate_AboveCutoffBypassesBuckets(t *testing.T) {
	if pointerWidth != 8 {
		t.Skip("assumes a 64-bit pointer width")
	}
	res, _ := newTestResource(t, 32768)

	require.Equal(t, 3608, res.sizes[K-1])
	ptr, err := res.Allocate(3609)
	require.NoError(t, err)
	require.NotNil(t, ptr)
	res.Deallocate(ptr, 3609)
}

func TestAllocate_ExactCutoffStaysInLastBucket(t *testing.T) {
	res, pool := newTestResource(t, 32768)
	before, _ := pool.Stats()

	ptr, err := res.Allocate(res.sizes[K-1])
	require.NoError(t, err)
	require.NotNil(t, ptr)

	after, _ := pool.Stats()
	// Serving from a bucket only ever grows the page pool, never bypasses
	// it, so chunk count is >= before either way; the real assertion is
	// that sizeToIndex keeps this request inside the table.
	assert.Equal(t, K-1, res.sizeToIndex(res.sizes[K-1]))
	assert.GreaterOrEqual(t, after, before)
}

// TestSizeToIndex_Monotone checks that larger requests never map to a
// smaller bucket, and that the chosen bucket always fits the request.
func TestSizeToIndex_Monotone(t *testing.T) {
	res, _ := newTestResource(t, 32768)
	prev := 0
	for n := 1; n <= res.sizes[K-1]; n++ {
		idx := res.sizeToIndex(n)
		assert.GreaterOrEqual(t, idx, prev)
		assert.GreaterOrEqual(t, res.sizes[idx], n)
		prev = idx
	}
}

func TestAllocateBeforeInit_Panics(t *testing.T) {
	var res Resource
	assert.Panics(t, func() {
		_, _ = res.Allocate(8)
	})
}

func TestDoubleInit_Panics(t *testing.T) {
	pool, err := pagepool.New(pagepool.Config{BlockSize: 4096})
	require.NoError(t, err)
	defer pool.Close()

	var res Resource
	res.Init(pool)
	assert.Panics(t, func() {
		res.Init(pool)
	})
}
