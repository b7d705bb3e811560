package order

import "errors"

var (
	ErrNotFound           = errors.New("order not found")
	ErrConsumableNotFound = errors.New("consumable not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrAlreadyClosed      = errors.New("order is no longer pending")
)
