package order

type ItemRequest struct {
	ConsumableID int64 `json:"consumableId" binding:"required,gt=0"`
	Quantity     int   `json:"quantity" binding:"required,gt=0,lte=100"`
}

type CreateOrderRequest struct {
	BookingID string        `json:"bookingId" binding:"omitempty,max=32"`
	Items     []ItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
