package catalog

import "errors"

var ErrInvalidReference = errors.New("referenced item does not exist")

// ReferenceError names the field whose id points at nothing.
type ReferenceError struct {
	Field string
	ID    int64
}

func (e *ReferenceError) Error() string {
	return e.Field + " references a missing item"
}

func (e *ReferenceError) Is(target error) bool { return target == ErrInvalidReference }
