package payment

import (
	"context"

	"travelagency/internal/domain"
	"travelagency/internal/pkg/midtrans"
)

type bookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error)
	Upsert(ctx context.Context, b *domain.Booking) error
	UpdatePayment(ctx context.Context, b *domain.Booking) error
	ListAll(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	ListReconcilable(ctx context.Context) ([]domain.Booking, error)
}

type packageReader interface {
	GetByID(ctx context.Context, id int64) (*domain.TourPackage, error)
}

type gateway interface {
	CreateTransaction(ctx context.Context, req midtrans.SnapRequest) (*midtrans.SnapResponse, error)
	GetStatus(ctx context.Context, orderID string) (*midtrans.TransactionStatus, error)
}

type statusNotifier interface {
	BookingStatusChanged(b *domain.Booking)
}
