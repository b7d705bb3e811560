package payment

import (
	"context"
	"fmt"
	"strings"

	"travelagency/internal/domain"
	"travelagency/internal/pkg/midtrans"
)

// Operations below back the development-only endpoints.

// SimulateSuccess marks a booking as settled without involving the gateway.
func (s *Service) SimulateSuccess(ctx context.Context, ref string) (*StatusResponse, error) {
	b, err := s.FindBooking(ctx, ref)
	if err != nil {
		return nil, err
	}

	orderID := b.Payment.OrderID
	if orderID == "" {
		orderID = NewOrderID(s.orderPrefix, b.BookingCode, s.now())
	}
	n := midtrans.TransactionStatus{
		StatusCode:        "200",
		OrderID:           orderID,
		TransactionID:     "SIM-" + b.BookingCode,
		TransactionStatus: TxSettlement,
		FraudStatus:       FraudAccept,
		PaymentType:       "simulation",
		GrossAmount:       formatGross(b.TotalAmount),
	}

	prev := b.Status
	s.apply(b, n, rawJSON(n))
	if err := s.bookings.UpdatePayment(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}
	if prev != b.Status {
		s.statusChanged(ctx, b, prev, "simulation")
	}
	return newStatusResponse(b, false), nil
}

// SimulateWebhook builds a correctly signed notification and feeds it through
// HandleNotification.
func (s *Service) SimulateWebhook(ctx context.Context, req SimulateWebhookRequest) (string, error) {
	orderID := strings.TrimSpace(req.OrderID)
	var gross int64
	if req.BookingID != "" {
		b, err := s.FindBooking(ctx, req.BookingID)
		if err != nil {
			return "", err
		}
		gross = b.TotalAmount
		if orderID == "" {
			orderID = b.Payment.OrderID
		}
		if orderID == "" {
			orderID = NewOrderID(s.orderPrefix, b.BookingCode, s.now())
		}
	}
	if orderID == "" {
		return "", &ValidationError{Fields: map[string]string{"bookingId": "bookingId or order_id is required"}}
	}

	n := midtrans.TransactionStatus{
		StatusCode:        "200",
		OrderID:           orderID,
		TransactionID:     "SIM-" + orderID,
		TransactionStatus: req.TransactionStatus,
		FraudStatus:       req.FraudStatus,
		PaymentType:       req.PaymentType,
		GrossAmount:       formatGross(gross),
	}
	n.SignatureKey = midtrans.Signature(n.OrderID, n.StatusCode, n.GrossAmount, s.serverKey)
	return s.HandleNotification(ctx, n, rawJSON(n))
}

// ResetStatus puts a booking back to pending and clears gateway results.
func (s *Service) ResetStatus(ctx context.Context, ref string) (*StatusResponse, error) {
	b, err := s.FindBooking(ctx, ref)
	if err != nil {
		return nil, err
	}

	prev := b.Status
	b.Status = domain.BookingPending
	b.PaymentStatus = domain.PaymentPending
	b.Payment.TransactionID = ""
	b.Payment.TransactionStatus = ""
	b.Payment.FraudStatus = ""
	b.Payment.Method = ""
	b.Payment.PaymentDate = nil
	b.Payment.LastNotification = ""
	if err := s.bookings.UpdatePayment(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}
	if prev != b.Status {
		s.statusChanged(ctx, b, prev, "reset")
	}
	return newStatusResponse(b, false), nil
}

func (s *Service) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListAll(ctx, "")
}

// formatGross renders whole rupiah the way the gateway does in notifications.
func formatGross(amount int64) string {
	return fmt.Sprintf("%d.00", amount)
}
