package mappedpool

// Mode selects the mapping's durability and write semantics.
type Mode int

const (
	// Persistent maps the file shared and writable: changes are written
	// back to disk (MAP_SHARED).
	Persistent Mode = iota

	// CopyOnWrite maps the file privately and writable: changes are
	// visible to this process only and discarded on Close (MAP_PRIVATE).
	CopyOnWrite

	// ReadOnly maps the file read-only; Allocate still pops blocks from
	// the free list, but the caller must not write through the returned
	// pointers.
	ReadOnly
)

func (m Mode) String() string {
	switch m {
	case Persistent:
		return "persistent"
	case CopyOnWrite:
		return "copy_on_write"
	case ReadOnly:
		return "read_only"
	default:
		return "unknown"
	}
}
