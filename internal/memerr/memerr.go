// Package memerr defines the error kinds shared across the allocator
// components. Caller-contract violations are not represented here: a
// programming bug (using a component before it's initialized, double-
// initializing one) panics instead of returning an error.
package memerr

import "errors"

var (
	// OutOfMemory indicates host allocation was refused, or disk space
	// was exhausted while preallocating a mapped file.
	OutOfMemory = errors.New("memblock: out of memory")

	// FilesystemInvalid indicates a named path exists but is not a
	// readable regular file, its size is not a multiple of the page
	// size, or a caller-supplied file size disagrees with the on-disk
	// length.
	FilesystemInvalid = errors.New("memblock: filesystem state invalid")

	// ConfigurationInvalid indicates an illegal combination of pool
	// parameters (mode vs. file presence, mode vs. zero_init, etc).
	ConfigurationInvalid = errors.New("memblock: configuration invalid")

	// PermissionsInvalid indicates the backing file is not writable
	// when the requested mode demands writing.
	PermissionsInvalid = errors.New("memblock: permissions invalid")
)
