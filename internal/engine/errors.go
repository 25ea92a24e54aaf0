package engine

import "errors"

var (
	// ErrUnknownMode indicates a mode tag outside the fixed enumeration.
	ErrUnknownMode = errors.New("engine: unknown mode")

	// ErrInvalidColor indicates a color string that could not be parsed.
	ErrInvalidColor = errors.New("engine: invalid color")
)
