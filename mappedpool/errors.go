package mappedpool

import "github.com/segflow/memblock/internal/memerr"

// Re-exported shared error kinds under this package's name, so a caller
// that only imports mappedpool can still errors.Is against them.
var (
	ErrOutOfMemory          = memerr.OutOfMemory
	ErrFilesystemInvalid    = memerr.FilesystemInvalid
	ErrConfigurationInvalid = memerr.ConfigurationInvalid
	ErrPermissionsInvalid   = memerr.PermissionsInvalid
)
