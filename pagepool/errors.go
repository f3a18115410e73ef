package pagepool

import "github.com/segflow/memblock/internal/memerr"

// ErrOutOfMemory and ErrConfigurationInvalid re-export the shared error
// kinds under this package's name for callers that only import pagepool.
var (
	ErrOutOfMemory          = memerr.OutOfMemory
	ErrConfigurationInvalid = memerr.ConfigurationInvalid
)
