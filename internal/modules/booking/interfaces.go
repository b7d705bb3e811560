package booking

import (
	"context"

	"travelagency/internal/domain"
	"travelagency/internal/repository"
)

// BookingRepository is the storage the booking service reads and updates.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, int64, error)
	ListAll(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, paymentStatus domain.PaymentStatus) error
}

type StatusNotifier interface {
	BookingStatusChanged(b *domain.Booking)
}
