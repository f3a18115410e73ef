package mappedpool

import (
	"path/filepath"
	"testing"
)

// BenchmarkPool_AllocateDeallocate measures the steady-state allocate/
// deallocate round trip against a two-block mapped region; each iteration
// returns its block before the next Allocate, so the region never runs out.
func BenchmarkPool_AllocateDeallocate(b *testing.B) {
	path := filepath.Join(b.TempDir(), "region.dat")
	blockSize := testBlockSize()

	pool, err := New(Config{
		Path:      path,
		BlockSize: blockSize,
		FileSize:  int64(blockSize * 2),
		Mode:      Persistent,
	})
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ptr, err := pool.Allocate()
		if err != nil {
			b.Fatal(err)
		}
		pool.Deallocate(ptr)
	}
}
