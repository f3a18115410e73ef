package objectpool

import "github.com/segflow/memblock/internal/memerr"

// ErrOutOfMemory and ErrConfigurationInvalid re-export the shared error
// kinds under this package's name.
var (
	ErrOutOfMemory          = memerr.OutOfMemory
	ErrConfigurationInvalid = memerr.ConfigurationInvalid
)
