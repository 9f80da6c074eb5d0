package descriptor

import (
	"errors"
	"fmt"
)

// ErrArrayDimensions is returned when an array type would exceed 255
// dimensions.
var ErrArrayDimensions = errors.New("array type with more than 255 dimensions")

// ClassFormatError reports a malformed descriptor found while parsing.
type ClassFormatError struct {
	Descriptor string
	Reason     string
	Err        error
}

func (e *ClassFormatError) Error() string {
	if e.Descriptor == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Descriptor)
}

func (e *ClassFormatError) Unwrap() error {
	return e.Err
}

func classFormatError(descriptor, reason string) error {
	return &ClassFormatError{Descriptor: descriptor, Reason: reason}
}
