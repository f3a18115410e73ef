package bucket

import "github.com/segflow/memblock/internal/memerr"

// ErrOutOfMemory re-exports the shared error kind under this package's
// name for callers that only import bucket.
var ErrOutOfMemory = memerr.OutOfMemory
