package memutils

import "github.com/cockroachdb/errors"

var (
	// InvalidSizeError is returned when a total size or a requested allocation size is not a
	// positive number of bytes
	InvalidSizeError error = errors.New("size must be greater than zero")
	// OutOfMemoryError is returned from allocation when no free region is large enough to
	// satisfy the request. The address space is left unchanged.
	OutOfMemoryError error = errors.New("not enough memory")
	// OwnerNotFoundError is returned from release when the owner does not hold any allocated
	// region. The address space is left unchanged.
	OwnerNotFoundError error = errors.New("owner not found")
	// InvalidOwnerError is returned when an allocation is requested for an empty owner id
	InvalidOwnerError error = errors.New("owner id must not be empty")
	// InvalidStrategyError is returned when an allocation strategy is not one of first, best,
	// or worst fit
	InvalidStrategyError error = errors.New("invalid allocation strategy")
	// InvalidCommandError is returned by the command layer for malformed command text
	InvalidCommandError error = errors.New("invalid command")
)
