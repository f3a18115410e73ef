package mappedpool

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/segflow/memblock/freelist"
	"github.com/segflow/memblock/internal/hostalloc"
	"github.com/segflow/memblock/internal/memerr"
	"github.com/segflow/memblock/internal/tagptr"
)

// Config describes a MappedPool's backing file and block layout.
type Config struct {
	// Path names the backing file. If it does not exist, it is created
	// and preallocated to FileSize (Mode must then be Persistent).
	Path string

	// BlockSize is the fixed size of every block the pool hands out. It
	// must be a multiple of the host page size and large enough to hold
	// a free-list node header.
	BlockSize int

	// FileSize is the region size to preallocate when Path does not yet
	// exist. If Path exists and FileSize is nonzero, it must equal the
	// file's current length exactly.
	FileSize int64

	// Mode selects durability and write semantics. Zero value is
	// Persistent.
	Mode Mode

	// ZeroInit forces the mapped region to read as all zero even if the
	// file already held data, at the cost of rewriting it on open.
	// Mutually exclusive with ReadOnly.
	ZeroInit bool
}

// Pool serves fixed-size blocks from a single memory-mapped file.
type Pool struct {
	f         *os.File
	base      unsafe.Pointer
	size      int
	blockSize int
	mode      Mode

	list            *freelist.Mapped
	blocksAllocated atomic.Int64
}

var minBlockSize = int(unsafe.Sizeof(tagptr.Node{}))

// New validates cfg against the file-presence/size/writability/mode
// matrix below, opens or creates the backing file, maps it, and returns
// a Pool ready to Allocate:
//
//   - file absent: FileSize must be set and Mode must be Persistent, so
//     New knows how large a file to create and isn't asked to map a
//     private or read-only view of something that doesn't exist yet.
//   - file present: must be a regular, readable file; a caller-supplied
//     FileSize must equal the file's on-disk length exactly; the length
//     must be a nonzero multiple of the host page size.
//   - file present but not writable: Mode must not be Persistent, and
//     ZeroInit must be false, since both require writing to the file.
//   - ReadOnly and ZeroInit are mutually exclusive.
//   - BlockSize must be at least a free-list node header wide and a
//     multiple of the host page size.
func New(cfg Config) (*Pool, error) {
	if cfg.Mode == ReadOnly && cfg.ZeroInit {
		return nil, fmt.Errorf("%w: read_only and zero_init are mutually exclusive", memerr.ConfigurationInvalid)
	}
	if cfg.BlockSize < minBlockSize {
		return nil, fmt.Errorf("%w: block size %d smaller than free-list node header %d", memerr.ConfigurationInvalid, cfg.BlockSize, minBlockSize)
	}
	if cfg.BlockSize%hostalloc.PageSize != 0 {
		return nil, fmt.Errorf("%w: block size %d not a multiple of the page size %d", memerr.ConfigurationInvalid, cfg.BlockSize, hostalloc.PageSize)
	}

	info, statErr := os.Stat(cfg.Path)
	exists := statErr == nil
	if statErr != nil && !os.IsNotExist(statErr) {
		return nil, fmt.Errorf("%w: %v", memerr.FilesystemInvalid, statErr)
	}

	var (
		f    *os.File
		err  error
		size int64
	)

	switch {
	case !exists:
		if cfg.FileSize <= 0 {
			return nil, fmt.Errorf("%w: file %q does not exist and no file_size was supplied", memerr.ConfigurationInvalid, cfg.Path)
		}
		if cfg.Mode != Persistent {
			return nil, fmt.Errorf("%w: file %q does not exist, mode must be persistent to create it", memerr.ConfigurationInvalid, cfg.Path)
		}
		f, err = os.OpenFile(cfg.Path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", memerr.FilesystemInvalid, err)
		}
		if err := f.Truncate(cfg.FileSize); err != nil {
			f.Close()
			os.Remove(cfg.Path)
			return nil, fmt.Errorf("%w: preallocating %q: %v", memerr.OutOfMemory, cfg.Path, err)
		}
		size = cfg.FileSize

	default:
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %q is not a regular file", memerr.FilesystemInvalid, cfg.Path)
		}
		if cfg.FileSize != 0 && cfg.FileSize != info.Size() {
			return nil, fmt.Errorf("%w: file_size %d disagrees with on-disk length %d", memerr.FilesystemInvalid, cfg.FileSize, info.Size())
		}
		size = info.Size()
		if size == 0 || size%int64(hostalloc.PageSize) != 0 {
			return nil, fmt.Errorf("%w: file length %d is not a nonzero multiple of the page size %d", memerr.FilesystemInvalid, size, hostalloc.PageSize)
		}

		f, err = os.OpenFile(cfg.Path, os.O_RDWR, 0)
		writable := err == nil
		if !writable {
			f, err = os.OpenFile(cfg.Path, os.O_RDONLY, 0)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", memerr.FilesystemInvalid, err)
			}
			if cfg.Mode == Persistent {
				f.Close()
				return nil, fmt.Errorf("%w: %q is not writable, persistent mode requires writing", memerr.PermissionsInvalid, cfg.Path)
			}
			if cfg.ZeroInit {
				f.Close()
				return nil, fmt.Errorf("%w: %q is not writable, cannot honor zero_init", memerr.PermissionsInvalid, cfg.Path)
			}
		}
	}

	if cfg.Mode == Persistent && cfg.ZeroInit {
		if err := zeroInitFile(f, size); err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: zeroing %q: %v", memerr.OutOfMemory, cfg.Path, err)
		}
	}

	base, err := mmap(int(f.Fd()), int(size), cfg.Mode)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mapping %q: %v", memerr.FilesystemInvalid, cfg.Path, err)
	}

	p := &Pool{
		f:         f,
		base:      base,
		size:      int(size),
		blockSize: cfg.BlockSize,
		mode:      cfg.Mode,
		list:      freelist.NewMapped(base, uintptr(size), uintptr(cfg.BlockSize)),
	}
	return p, nil
}

// BlockSize returns the fixed block size every Allocate call returns.
func (p *Pool) BlockSize() int {
	return p.blockSize
}

// Allocate pops a block from the mapped region's free list. It never
// grows: once every block in the file is in use, Allocate fails with
// ErrOutOfMemory.
func (p *Pool) Allocate() (unsafe.Pointer, error) {
	ptr, ok := p.list.Allocate()
	if !ok {
		return nil, fmt.Errorf("%w: mapped pool %q exhausted", memerr.OutOfMemory, p.f.Name())
	}
	p.blocksAllocated.Add(1)
	return ptr, nil
}

// Deallocate returns ptr, previously returned by Allocate, to the free
// list.
func (p *Pool) Deallocate(ptr unsafe.Pointer) {
	p.list.Deallocate(ptr)
	p.blocksAllocated.Add(-1)
}

// Stats reports the number of blocks currently checked out.
func (p *Pool) Stats() (blocksAllocated int64) {
	return p.blocksAllocated.Load()
}

// Sync flushes the mapping's dirty pages back to the backing file. It is
// a no-op outside Persistent mode, since copy-on-write and read-only
// mappings have nothing durable to flush.
func (p *Pool) Sync() error {
	if p.mode != Persistent {
		return nil
	}
	return msync(p.base, p.size)
}

// Close unmaps the region and closes the backing file. For Persistent
// mode, callers that need durability guarantees should Sync first: Close
// itself does not force a flush.
func (p *Pool) Close() error {
	munmapErr := munmap(p.base, p.size)
	closeErr := p.f.Close()
	if munmapErr != nil {
		return munmapErr
	}
	return closeErr
}
