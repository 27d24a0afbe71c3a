package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidRange       = errors.New("invalid date range")
	ErrPastDate           = errors.New("start date cannot be in the past")
	ErrDateTooFar         = errors.New("start date is too far ahead")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnauthorized       = errors.New("operation not permitted")
	ErrNotAvailable       = errors.New("insufficient availability")
	ErrAvailabilityBounds = errors.New("availability adjustment out of bounds")
)

// InsufficientAvailabilityError carries the number of units actually
// free for the requested range so callers can surface it.
type InsufficientAvailabilityError struct {
	Available int64
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("only %d units available for this date range", e.Available)
}

func (e *InsufficientAvailabilityError) Is(target error) bool {
	return target == ErrNotAvailable
}
