//go:build !unix

package mappedpool

import (
	"fmt"
	"unsafe"
)

// Writable file mapping is only implemented for unix hosts; the teacher's
// own mmfile helpers fall back to whole-file reads on other platforms
// rather than mapping, and a read-only copy cannot back a writable free
// list here.
func mmap(fd int, size int, mode Mode) (unsafe.Pointer, error) {
	return nil, fmt.Errorf("mappedpool: memory-mapped pools are not supported on this platform")
}

func munmap(base unsafe.Pointer, size int) error {
	return nil
}

func msync(base unsafe.Pointer, size int) error {
	return nil
}
