// Package pagepool hands out page-aligned, fixed-size chunks, each its own
// host allocation, growing one chunk per demand.
//
// A "chunk" here is a single page-aligned span of exactly Pool.blockSize
// bytes, delivered fresh from the host on every Acquire call; chunks are
// retained for the pool's lifetime and only released together, at Close.
// min/max chunk bounds parameterize the retained-chunk slice's initially
// reserved capacity, not the growth step itself; Acquire calls past that
// capacity grow the slice by a plain append.
package pagepool
