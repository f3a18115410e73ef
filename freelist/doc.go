// Package freelist implements lock-free, fixed-size LIFO free lists.
//
// # Overview
//
// Three cooperating types share one tagged-pointer CAS protocol
// (internal/tagptr):
//
//   - Core: the bare lock-free stack. Allocate (Pop) and deallocate (Push)
//     never block; Pop returns ok=false on an empty list instead of
//     spinning forever.
//   - Anon: wraps Core with a refill callback invoked under a mutex when
//     the fast path finds the list empty. The refill supplier (typically
//     a pagepool.Pool) carves a fresh chunk into blocks and calls AddBlock.
//   - Mapped: wraps the same head word but pops lazily into untouched
//     tail space of a memory-mapped region instead of refilling from an
//     external supplier, so a freshly created (all-zero) mapping never
//     needs its next pointers pre-threaded.
//
// # Usage Example
//
//	core := freelist.NewAnon()
//	ptr, ok := core.Allocate(func() bool {
//	        chunk := acquireChunkFromPagePool()
//	        if chunk == nil {
//	                return false
//	        }
//	        core.AddBlock(chunk, chunkSize, blockSize)
//	        return true
//	})
//
// # Thread Safety
//
// Allocate/Deallocate on Core and Anon are safe for concurrent use by any
// number of goroutines. Mapped is likewise safe for Allocate/Deallocate,
// but NewMapped/Initialize must happen-before any concurrent use.
package freelist
