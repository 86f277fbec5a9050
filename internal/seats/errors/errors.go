package errors

import "errors"

var (
	ErrNotFound = errors.New("flight seat not found")

	ErrInvalidID = errors.New("invalid flight seat ID format")

	// ErrSeatConflict means the seat exists but is booked or held by another
	// live session, so the conditional claim matched nothing.
	ErrSeatConflict = errors.New("seat is not available")
)
