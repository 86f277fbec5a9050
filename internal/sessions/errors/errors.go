package errors

import "errors"

var (
	ErrNotFound = errors.New("booking session not found")

	ErrInvalidID = errors.New("invalid booking session ID format")

	// ErrDuplicateSeat means two passenger slots on the same segment would
	// end up on the same seat.
	ErrDuplicateSeat = errors.New("seat already assigned to another passenger on this segment")
)
