package admin

import (
	"context"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/repository"
)

type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountActivePackages(ctx context.Context) (int64, error)
	CountBookingsSince(ctx context.Context, since time.Time) (int64, error)
	CountOrders(ctx context.Context, status domain.OrderStatus) (int64, error)
	BookingsByStatus(ctx context.Context) ([]repository.StatusCount, error)
	PaidRevenue(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context, q string, page, limit int) ([]domain.User, int64, error)
}
