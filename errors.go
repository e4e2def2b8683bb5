package purfectmux

import "errors"

var (
	// ErrInvalidSize is returned when a buffer is created or resized with a
	// non-positive dimension.
	ErrInvalidSize = errors.New("invalid terminal size")

	// ErrClosed is returned by operations on a closed buffer.
	ErrClosed = errors.New("buffer is closed")
)
