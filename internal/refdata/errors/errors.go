package errors

import "errors"

var (
	ErrNotFound = errors.New("reference entity not found")

	ErrInvalidID = errors.New("invalid reference entity ID format")

	ErrUnknownSeatClass = errors.New("unknown seat class")
)
