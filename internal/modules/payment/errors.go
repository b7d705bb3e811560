package payment

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrPackageNotFound  = errors.New("package not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyPaid      = errors.New("booking is already paid")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMissingOrderID   = errors.New("order_id is required")
	ErrGateway          = errors.New("payment gateway error")
)

// ValidationError lists offending fields by json name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
