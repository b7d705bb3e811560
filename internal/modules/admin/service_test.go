package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* ==================== MOCKS ==================== */

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountActivePackages(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountBookingsSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountOrders(ctx context.Context, status domain.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) BookingsByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

func (m *MockStatsRepository) PaidRevenue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) ListUsers(ctx context.Context, q string, page, limit int) ([]domain.User, int64, error) {
	args := m.Called(ctx, q, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

/* ==================== TESTS ==================== */

func TestGetStatistics(t *testing.T) {
	ctx := context.Background()
	repo := new(MockStatsRepository)
	svc := NewService(repo)
	// 02:00 WIB on March 10 is still March 9 in UTC
	svc.now = func() time.Time { return time.Date(2025, 3, 9, 19, 0, 0, 0, time.UTC) }
	startOfDay := time.Date(2025, 3, 10, 0, 0, 0, 0, agencyZone)

	repo.On("CountUsers", ctx).Return(int64(12), nil)
	repo.On("CountActivePackages", ctx).Return(int64(4), nil)
	repo.On("CountBookingsSince", ctx, startOfDay).Return(int64(2), nil)
	repo.On("CountOrders", ctx, domain.OrderPending).Return(int64(3), nil)
	repo.On("PaidRevenue", ctx).Return(int64(4500000), nil)
	repo.On("BookingsByStatus", ctx).Return([]repository.StatusCount{
		{Status: "confirmed", Count: 3},
		{Status: "pending", Count: 5},
	}, nil)

	stats, err := svc.GetStatistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(12), stats.TotalUsers)
	assert.Equal(t, int64(4), stats.ActivePackages)
	assert.Equal(t, int64(2), stats.TodayBookings)
	assert.Equal(t, int64(8), stats.TotalBookings)
	assert.Equal(t, int64(4500000), stats.PaidRevenue)
	assert.Equal(t, int64(3), stats.PendingOrders)
	assert.Equal(t, int64(3), stats.BookingsByStatus["confirmed"])
	assert.Equal(t, int64(0), stats.BookingsByStatus["cancelled"])
	assert.Len(t, stats.BookingsByStatus, 5)
	repo.AssertExpectations(t)
}

func TestGetStatistics_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockStatsRepository)
	svc := NewService(repo)

	boom := errors.New("db down")
	repo.On("CountUsers", ctx).Return(int64(0), boom)

	_, err := svc.GetStatistics(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockStatsRepository)
	svc := NewService(repo)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.On("ListUsers", ctx, "siti", 1, 20).Return([]domain.User{
		{ID: 7, Name: "Siti", Email: "siti@example.com", PasswordHash: "x", CreatedAt: created},
	}, int64(1), nil)

	users, total, err := svc.ListUsers(ctx, UserListFilter{Query: "siti"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "siti@example.com", users[0].Email)
	assert.Equal(t, "2025-01-02T03:04:05Z", users[0].CreatedAt)
}
