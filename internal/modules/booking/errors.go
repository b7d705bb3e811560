package booking

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("booking belongs to another customer")
	ErrInvalidStatus     = errors.New("unknown booking status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrVoucherLocked     = errors.New("voucher available after payment confirmation")
)
