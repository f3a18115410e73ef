//go:build unix

package hostalloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// AllocPage maps a fresh, zero-filled, page-aligned anonymous region of
// exactly size bytes (size must already be a multiple of PageSize). The
// returned pointer must be released with FreePage.
func AllocPage(size int) (unsafe.Pointer, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(&data[0]), nil
}

// FreePage releases a region previously returned by AllocPage.
func FreePage(ptr unsafe.Pointer, size int) error {
	data := unsafe.Slice((*byte)(ptr), size)
	return unix.Munmap(data)
}
