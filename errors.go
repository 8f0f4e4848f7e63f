package cubegym

import "errors"

// Sentinel errors for the cubegym package.
var (
	// ErrInvalidMove reports a face index outside [0,5] or an action index
	// outside [0,ActionCount). It is returned synchronously, before any
	// state mutation.
	ErrInvalidMove = errors.New("cubegym: invalid move")

	// ErrInvalidNotation reports an unparseable move notation token.
	ErrInvalidNotation = errors.New("cubegym: invalid move notation")

	// ErrInvalidState reports an unparseable 54-letter state string.
	ErrInvalidState = errors.New("cubegym: invalid state encoding")
)
