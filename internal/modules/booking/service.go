package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/pkg/events"
	"travelagency/internal/pkg/metrics"
	"travelagency/internal/repository"

	"github.com/sirupsen/logrus"
)

// Viewer is who is asking; admins see every booking, customers only their own.
type Viewer struct {
	Email string
	Admin bool
}

type Service struct {
	bookings  BookingRepository
	publisher events.Publisher
	notifier  StatusNotifier
	metrics   *metrics.Metrics
	log       *logrus.Logger
	now       func() time.Time
}

func NewService(bookings BookingRepository, publisher events.Publisher, notifier StatusNotifier, m *metrics.Metrics, log *logrus.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		bookings:  bookings,
		publisher: publisher,
		notifier:  notifier,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) MyBookings(ctx context.Context, email string, page, limit int) ([]domain.Booking, int64, error) {
	if strings.TrimSpace(email) == "" {
		return []domain.Booking{}, 0, nil
	}
	return s.bookings.List(ctx, repository.BookingFilter{Email: email, Page: page, Limit: limit})
}

func (s *Service) List(ctx context.Context, status string, page, limit int) ([]domain.Booking, int64, error) {
	f := repository.BookingFilter{Page: page, Limit: limit}
	if status != "" {
		st, ok := domain.ParseBookingStatus(status)
		if !ok {
			return nil, 0, ErrInvalidStatus
		}
		f.Status = st
	}
	return s.bookings.List(ctx, f)
}

// ListForExport returns all bookings, optionally limited to one status.
func (s *Service) ListForExport(ctx context.Context, status string) ([]domain.Booking, error) {
	var st domain.BookingStatus
	if status != "" {
		var ok bool
		if st, ok = domain.ParseBookingStatus(status); !ok {
			return nil, ErrInvalidStatus
		}
	}
	return s.bookings.ListAll(ctx, st)
}

// Get resolves ref as a native id first, then as a booking code.
func (s *Service) Get(ctx context.Context, ref string, viewer Viewer) (*domain.Booking, error) {
	b, err := s.find(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !viewer.Admin && !strings.EqualFold(b.CustomerInfo.Email, strings.TrimSpace(viewer.Email)) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) Voucher(ctx context.Context, ref string, viewer Viewer) (*Voucher, error) {
	b, err := s.Get(ctx, ref, viewer)
	if err != nil {
		return nil, err
	}
	if !b.CanAccessVoucher() {
		return nil, ErrVoucherLocked
	}
	return &Voucher{
		BookingID:     b.BookingCode,
		CustomerName:  b.CustomerInfo.Name,
		CustomerEmail: b.CustomerInfo.Email,
		Package:       b.PackageInfo,
		Schedule:      b.Schedule,
		Participants:  b.JumlahPeserta,
		TotalAmount:   b.TotalAmount,
		PaymentMethod: b.Payment.Method,
		PaymentDate:   b.Payment.PaymentDate,
		IssuedAt:      s.now().UTC(),
	}, nil
}

// UpdateStatus applies a manual admin transition along the booking lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, ref, status string) (*domain.Booking, error) {
	to, ok := domain.ParseBookingStatus(strings.TrimSpace(status))
	if !ok {
		return nil, ErrInvalidStatus
	}
	b, err := s.find(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}

	prev := b.Status
	b.Status = to
	b.PaymentStatus = domain.PaymentStatusFor(to, b.Payment.TransactionStatus)
	if err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, b.PaymentStatus); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"booking_code": b.BookingCode,
		"from":         prev,
		"to":           to,
	}).Info("booking status changed by admin")

	s.metrics.Transition(string(to))
	if s.notifier != nil {
		s.notifier.BookingStatusChanged(b)
	}
	ev := events.BookingEvent{
		Type:              events.TypeBookingStatusChanged,
		BookingCode:       b.BookingCode,
		Status:            string(b.Status),
		PreviousStatus:    string(prev),
		PaymentStatus:     string(b.PaymentStatus),
		TransactionStatus: b.Payment.TransactionStatus,
		OrderID:           b.Payment.OrderID,
		TotalAmount:       b.TotalAmount,
		Source:            "admin",
		OccurredAt:        s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, b.BookingCode, ev); err != nil {
		s.log.WithError(err).WithField("booking_code", b.BookingCode).Warn("publish booking event failed")
	}
	return b, nil
}

func (s *Service) find(ctx context.Context, ref string) (*domain.Booking, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id > 0 {
		b, err := s.bookings.GetByID(ctx, id)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	b, err := s.bookings.GetByCode(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}
