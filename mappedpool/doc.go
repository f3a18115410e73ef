// Package mappedpool hands out fixed-size blocks from a single
// memory-mapped file, serving them from a freelist.Mapped over the
// mapping rather than from anonymous host memory.
//
// Unlike pagepool, a Pool here never grows: its capacity is fixed at file
// creation time, and Allocate fails with ErrOutOfMemory once every block
// in the file is checked out. The file's presence, size, and writability
// constrain which Mode a caller may request; New validates the full
// matrix before mapping anything.
package mappedpool
