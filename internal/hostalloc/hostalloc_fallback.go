//go:build !unix

package hostalloc

import "unsafe"

// AllocPage allocates a page-aligned anonymous region on platforms without
// a POSIX mmap, by over-allocating and rounding the base address up to
// the next page boundary. The region is ordinary Go heap memory: it stays
// allocated only while a reference visible to the garbage collector points
// into it.
func AllocPage(size int) (unsafe.Pointer, error) {
	raw := make([]byte, size+PageSize)
	base := uintptr(unsafe.Pointer(&raw[0]))
	pad := uintptr(roundup(int(base), PageSize)) - base
	return unsafe.Pointer(&raw[pad]), nil
}

// FreePage is a no-op on platforms where AllocPage falls back to the Go
// heap: the region is reclaimed by the garbage collector once unreferenced.
func FreePage(unsafe.Pointer, int) error {
	return nil
}
