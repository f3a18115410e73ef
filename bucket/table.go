package bucket

import "unsafe"

// K is the fixed number of size-segregated buckets.
const K = 12

// rawSizeTable holds the bucket sizes as multiples of the pointer width.
// The schedule is geometric (ratio ~= 1.42) so each bucket rounds a
// request up by at most ~42% versus the exact size requested.
var rawSizeTable = [K]int{8, 12, 18, 26, 38, 54, 78, 111, 158, 224, 318, 451}

// pointerWidth is the size, in bytes, of a machine pointer on this
// platform.
const pointerWidth = int(unsafe.Sizeof(uintptr(0)))

// scaledSizeTable returns the bucket sizes in bytes.
func scaledSizeTable() [K]int {
	var sizes [K]int
	for i, mult := range rawSizeTable {
		sizes[i] = mult * pointerWidth
	}
	return sizes
}
