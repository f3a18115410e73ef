//go:build !linux

package mappedpool

import "os"

// zeroInitFile rezeroes [0, size) of f by writing zero pages directly;
// there is no portable range-zeroing fallocate equivalent outside linux.
func zeroInitFile(f *os.File, size int64) error {
	const chunk = 1 << 20
	buf := make([]byte, chunk)
	var off int64
	for off < size {
		n := int64(chunk)
		if size-off < n {
			n = size - off
		}
		if _, err := f.WriteAt(buf[:n], off); err != nil {
			return err
		}
		off += n
	}
	return nil
}
