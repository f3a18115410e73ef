//go:build unix

package mappedpool

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func mmap(fd int, size int, mode Mode) (unsafe.Pointer, error) {
	prot := unix.PROT_READ
	if mode != ReadOnly {
		prot |= unix.PROT_WRITE
	}
	flags := unix.MAP_SHARED
	if mode != Persistent {
		flags = unix.MAP_PRIVATE
	}
	data, err := unix.Mmap(fd, 0, size, prot, flags)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(&data[0]), nil
}

func munmap(base unsafe.Pointer, size int) error {
	data := unsafe.Slice((*byte)(base), size)
	return unix.Munmap(data)
}

func msync(base unsafe.Pointer, size int) error {
	data := unsafe.Slice((*byte)(base), size)
	return unix.Msync(data, unix.MS_SYNC)
}
