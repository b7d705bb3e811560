package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/pkg/events"
	"travelagency/internal/pkg/logger"
	"travelagency/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) ListAll(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, paymentStatus domain.PaymentStatus) error {
	args := m.Called(ctx, id, status, paymentStatus)
	return args.Error(0)
}

type capturePublisher struct {
	events []events.BookingEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, _ string, ev events.BookingEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

type captureNotifier struct {
	codes []string
}

func (n *captureNotifier) BookingStatusChanged(b *domain.Booking) {
	n.codes = append(n.codes, b.BookingCode)
}

func newBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            5,
		BookingCode:   "BK17000000000001",
		Status:        status,
		PaymentStatus: domain.PaymentStatusFor(status, ""),
		CustomerInfo:  domain.CustomerInfo{Name: "Rina", Email: "rina@example.com"},
		TotalAmount:   750000,
		JumlahPeserta: 1,
	}
}

func TestUpdateStatus_ConfirmedToCompleted(t *testing.T) {
	repo := new(MockBookingRepository)
	pub := &capturePublisher{err: errors.New("broker down")}
	hub := &captureNotifier{}
	svc := NewService(repo, pub, hub, nil, logger.Discard())

	b := newBooking(domain.BookingConfirmed)
	repo.On("GetByID", mock.Anything, int64(5)).Return(b, nil)
	repo.On("UpdateStatus", mock.Anything, int64(5), domain.BookingCompleted, domain.PaymentPaid).Return(nil)

	got, err := svc.UpdateStatus(context.Background(), "5", "completed")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, got.Status)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	assert.False(t, got.CanAccessVoucher())

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeBookingStatusChanged, pub.events[0].Type)
	assert.Equal(t, "confirmed", pub.events[0].PreviousStatus)
	assert.Equal(t, "admin", pub.events[0].Source)
	assert.Equal(t, []string{b.BookingCode}, hub.codes)
	repo.AssertExpectations(t)
}

func TestUpdateStatus_RejectsInvalidTransition(t *testing.T) {
	repo := new(MockBookingRepository)
	svc := NewService(repo, nil, nil, nil, logger.Discard())

	repo.On("GetByCode", mock.Anything, "BK17000000000001").Return(newBooking(domain.BookingPending), nil)

	_, err := svc.UpdateStatus(context.Background(), "BK17000000000001", "completed")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), "BK17000000000001", "refunded")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_CancelKeepsExpiredPayment(t *testing.T) {
	repo := new(MockBookingRepository)
	svc := NewService(repo, nil, nil, nil, logger.Discard())

	b := newBooking(domain.BookingPending)
	b.Payment.TransactionStatus = "expire"
	repo.On("GetByID", mock.Anything, int64(5)).Return(b, nil)
	repo.On("UpdateStatus", mock.Anything, int64(5), domain.BookingCancelled, domain.PaymentExpired).Return(nil)

	got, err := svc.UpdateStatus(context.Background(), "5", "cancelled")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentExpired, got.PaymentStatus)
}

func TestGet_OwnershipAndFallback(t *testing.T) {
	repo := new(MockBookingRepository)
	svc := NewService(repo, nil, nil, nil, logger.Discard())

	b := newBooking(domain.BookingPending)
	repo.On("GetByID", mock.Anything, int64(77)).Return(nil, repository.ErrNotFound)
	repo.On("GetByCode", mock.Anything, "77").Return(nil, repository.ErrNotFound)
	repo.On("GetByCode", mock.Anything, b.BookingCode).Return(b, nil)

	_, err := svc.Get(context.Background(), "77", Viewer{Admin: true})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(context.Background(), b.BookingCode, Viewer{Email: "RINA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.Get(context.Background(), b.BookingCode, Viewer{Email: "someone@else.com"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestVoucher(t *testing.T) {
	repo := new(MockBookingRepository)
	svc := NewService(repo, nil, nil, nil, logger.Discard())
	fixed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	pending := newBooking(domain.BookingPending)
	repo.On("GetByCode", mock.Anything, "BK-PENDING").Return(pending, nil)
	confirmed := newBooking(domain.BookingConfirmed)
	confirmed.BookingCode = "BK-OK"
	repo.On("GetByCode", mock.Anything, "BK-OK").Return(confirmed, nil)

	_, err := svc.Voucher(context.Background(), "BK-PENDING", Viewer{Admin: true})
	assert.ErrorIs(t, err, ErrVoucherLocked)

	v, err := svc.Voucher(context.Background(), "BK-OK", Viewer{Email: "rina@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "BK-OK", v.BookingID)
	assert.Equal(t, fixed, v.IssuedAt)
}

func TestMyBookings_FiltersByEmail(t *testing.T) {
	repo := new(MockBookingRepository)
	svc := NewService(repo, nil, nil, nil, logger.Discard())

	repo.On("List", mock.Anything, repository.BookingFilter{Email: "rina@example.com", Page: 1, Limit: 20}).
		Return([]domain.Booking{*newBooking(domain.BookingPending)}, int64(1), nil)

	list, total, err := svc.MyBookings(context.Background(), "rina@example.com", 1, 20)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), total)

	list, _, err = svc.MyBookings(context.Background(), "", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_InvalidStatus(t *testing.T) {
	svc := NewService(new(MockBookingRepository), nil, nil, nil, logger.Discard())
	_, _, err := svc.List(context.Background(), "lost", 1, 20)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
