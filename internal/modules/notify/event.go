package notify

import "travelagency/internal/domain"

const TypeBookingStatus = "booking_status"

type StatusEvent struct {
	Type             string               `json:"type"`
	BookingCode      string               `json:"bookingId"`
	Status           domain.BookingStatus `json:"status"`
	PaymentStatus    domain.PaymentStatus `json:"paymentStatus"`
	CanAccessVoucher bool                 `json:"canAccessVoucher"`
}

func NewStatusEvent(b *domain.Booking) StatusEvent {
	return StatusEvent{
		Type:             TypeBookingStatus,
		BookingCode:      b.BookingCode,
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		CanAccessVoucher: b.CanAccessVoucher(),
	}
}

// BookingStatusChanged pushes the current state of b to its watchers.
func (h *Hub) BookingStatusChanged(b *domain.Booking) {
	h.Broadcast(b.BookingCode, NewStatusEvent(b))
}
