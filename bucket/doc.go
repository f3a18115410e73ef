// Package bucket fans incoming size requests into an array of per-size
// fixed-block allocators (package freelist), falling through to the host
// allocator above a fixed cutoff.
//
// Resource is meant to be constructed once, process-wide, and initialized
// exactly once with a *pagepool.Pool before any Allocate/Deallocate call:
//
//	var res bucket.Resource
//	pool, _ := pagepool.New(pagepool.Config{BlockSize: 32 * 1024})
//	res.Init(pool)
//
//	ptr, err := res.Allocate(24)
//	...
//	res.Deallocate(ptr, 24)
//
// Calling Allocate/Deallocate before Init is a caller-contract violation
// and panics rather than returning an error.
package bucket
