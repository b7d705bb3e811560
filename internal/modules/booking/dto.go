package booking

import (
	"time"

	"travelagency/internal/domain"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Voucher is the travel document handed to customers once payment is confirmed.
type Voucher struct {
	BookingID     string                 `json:"bookingId"`
	CustomerName  string                 `json:"customerName"`
	CustomerEmail string                 `json:"customerEmail"`
	Package       domain.PackageSnapshot `json:"package"`
	Schedule      domain.Schedule        `json:"schedule"`
	Participants  int                    `json:"jumlahPeserta"`
	TotalAmount   int64                  `json:"totalAmount"`
	PaymentMethod string                 `json:"paymentMethod,omitempty"`
	PaymentDate   *time.Time             `json:"paymentDate,omitempty"`
	IssuedAt      time.Time              `json:"issuedAt"`
}
