package admin

import (
	"context"
	"fmt"
	"time"

	"travelagency/internal/domain"
)

// dashboard day boundaries follow the agency's local time
var agencyZone = time.FixedZone("WIB", 7*60*60)

type Service struct {
	stats StatsRepository
	now   func() time.Time
}

func NewService(stats StatsRepository) *Service {
	return &Service{stats: stats, now: time.Now}
}

// -------------------- Statistics --------------------

func (s *Service) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	now := s.now().In(agencyZone)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, agencyZone)

	out := &StatisticsResponse{
		BookingsByStatus: map[string]int64{},
		GeneratedAt:      now.Format(time.RFC3339),
	}

	var err error
	if out.TotalUsers, err = s.stats.CountUsers(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if out.ActivePackages, err = s.stats.CountActivePackages(ctx); err != nil {
		return nil, fmt.Errorf("count packages: %w", err)
	}
	if out.TodayBookings, err = s.stats.CountBookingsSince(ctx, startOfDay); err != nil {
		return nil, fmt.Errorf("count today bookings: %w", err)
	}
	if out.PendingOrders, err = s.stats.CountOrders(ctx, domain.OrderPending); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	if out.PaidRevenue, err = s.stats.PaidRevenue(ctx); err != nil {
		return nil, fmt.Errorf("paid revenue: %w", err)
	}

	byStatus, err := s.stats.BookingsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("bookings by status: %w", err)
	}
	for _, st := range []domain.BookingStatus{
		domain.BookingPending, domain.BookingPendingVerification, domain.BookingConfirmed,
		domain.BookingCancelled, domain.BookingCompleted,
	} {
		out.BookingsByStatus[string(st)] = 0
	}
	for _, row := range byStatus {
		out.BookingsByStatus[row.Status] = row.Count
		out.TotalBookings += row.Count
	}
	return out, nil
}

// -------------------- Users --------------------

func (s *Service) ListUsers(ctx context.Context, f UserListFilter, page, limit int) ([]UserSummary, int64, error) {
	users, total, err := s.stats.ListUsers(ctx, f.Query, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, toUserSummary(u))
	}
	return out, total, nil
}
