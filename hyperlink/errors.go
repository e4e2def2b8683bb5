package hyperlink

import "errors"

var (
	// ErrInvalidCapacity is returned when a pool is configured with a capacity
	// below 3, which would evict the link just stored.
	ErrInvalidCapacity = errors.New("hyperlink: capacity must be at least 3")

	// ErrRegistryFreed is the panic value for Put on a freed registry.
	ErrRegistryFreed = errors.New("hyperlink: registry has been freed")
)
