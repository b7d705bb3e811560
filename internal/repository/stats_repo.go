package repository

import (
	"context"
	"strings"
	"time"

	"travelagency/internal/domain"

	"gorm.io/gorm"
)

// StatsRepository answers the aggregate queries behind the admin dashboard.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type StatusCount struct {
	Status string
	Count  int64
}

func (r *StatsRepository) count(ctx context.Context, model interface{}, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(model).Scopes(scopes...).Count(&n).Error
	return n, mapError(err)
}

func (r *StatsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &domain.User{})
}

func (r *StatsRepository) CountActivePackages(ctx context.Context) (int64, error) {
	return r.count(ctx, &domain.TourPackage{}, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_active = ?", true)
	})
}

func (r *StatsRepository) CountBookingsSince(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, &domain.Booking{}, func(q *gorm.DB) *gorm.DB {
		return q.Where("created_at >= ?", since)
	})
}

func (r *StatsRepository) CountOrders(ctx context.Context, status domain.OrderStatus) (int64, error) {
	return r.count(ctx, &domain.Order{}, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", status)
	})
}

func (r *StatsRepository) BookingsByStatus(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&out).Error
	return out, mapError(err)
}

// PaidRevenue sums TotalAmount over bookings whose payment went through.
func (r *StatsRepository) PaidRevenue(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("payment_status = ?", domain.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&sum).Error
	return sum, mapError(err)
}

// ListUsers pages customers, newest first. q matches name or email.
func (r *StatsRepository) ListUsers(ctx context.Context, q string, page, limit int) ([]domain.User, int64, error) {
	page, limit = normalizePage(page, limit)

	query := r.db.WithContext(ctx).Model(&domain.User{})
	if q = strings.ToLower(strings.TrimSpace(q)); q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError(err)
	}
	var out []domain.User
	err := query.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&out).Error
	if err != nil {
		return nil, 0, mapError(err)
	}
	return out, total, nil
}
