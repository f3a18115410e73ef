//go:build linux

package mappedpool

import (
	"os"

	"golang.org/x/sys/unix"
)

// zeroInitFile rezeroes [0, size) of f using a range-zeroing fallocate, the
// fast path described for the linux linker's output buffer preallocation
// (cmd/link outbuf_linux.go): punch the existing extents to zero without
// reading or rewriting them byte by byte.
func zeroInitFile(f *os.File, size int64) error {
	return unix.Fallocate(int(f.Fd()), unix.FALLOC_FL_KEEP_SIZE|unix.FALLOC_FL_ZERO_RANGE, 0, size)
}
