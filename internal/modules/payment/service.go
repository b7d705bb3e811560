package payment

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
	"travelagency/internal/pkg/midtrans"
	"travelagency/internal/repository"

	"github.com/sirupsen/logrus"
)

// Webhook outcomes, used as metric labels and log fields.
const (
	OutcomeApplied          = "applied"
	OutcomeUnchanged        = "unchanged"
	OutcomeNotFound         = "not_found"
	OutcomeInvalidPayload   = "invalid_payload"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeError            = "error"
)

const maxItemNameLen = 50

// gateway timestamps are Western Indonesian Time
var gatewayZone = time.FixedZone("WIB", 7*60*60)

type Config struct {
	ServerKey    string
	IsProduction bool
	OrderPrefix  string
	FinishURL    string
}

type Service struct {
	bookings bookingStore
	packages packageReader
	gateway  gateway
	verifier midtrans.Verifier
	log      *logrus.Logger

	publisher events.Publisher
	notifier  statusNotifier
	metrics   *metrics.Metrics
	now       func() time.Time

	orderPrefix string
	finishURL   string
	serverKey   string
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option { return func(s *Service) { s.publisher = p } }
func WithNotifier(n statusNotifier) Option   { return func(s *Service) { s.notifier = n } }
func WithMetrics(m *metrics.Metrics) Option  { return func(s *Service) { s.metrics = m } }
func WithClock(now func() time.Time) Option  { return func(s *Service) { s.now = now } }

func NewService(bookings bookingStore, packages packageReader, gw gateway, cfg Config, log *logrus.Logger, opts ...Option) *Service {
	prefix := cfg.OrderPrefix
	if prefix == "" {
		prefix = "TRX"
	}
	s := &Service{
		bookings:    bookings,
		packages:    packages,
		gateway:     gw,
		verifier:    midtrans.Verifier{ServerKey: cfg.ServerKey, Enabled: cfg.IsProduction},
		log:         log,
		publisher:   events.Nop{},
		now:         time.Now,
		orderPrefix: prefix,
		finishURL:   cfg.FinishURL,
		serverKey:   cfg.ServerKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTransaction opens a gateway session for the request and stores the booking as pending.
func (s *Service) CreateTransaction(ctx context.Context, req PaymentRequest) (*CreatePaymentResponse, error) {
	now := s.now()

	var (
		b   *domain.Booking
		err error
	)
	switch r := req.(type) {
	case ExistingBooking:
		b, err = s.bookingFromExisting(ctx, r)
	case PackageBooking:
		b, err = s.bookingFromPackage(ctx, r, now)
	default:
		err = fmt.Errorf("%w: unsupported request %T", ErrValidation, req)
	}
	if err != nil {
		return nil, err
	}

	orderID := NewOrderID(s.orderPrefix, b.BookingCode, now)
	snapReq := s.snapRequest(b, orderID)

	start := time.Now()
	snap, err := s.gateway.CreateTransaction(ctx, snapReq)
	s.metrics.GatewayCall("create_transaction", time.Since(start))
	if err != nil {
		s.metrics.PaymentCreated("gateway_error")
		s.log.WithError(err).WithFields(logrus.Fields{
			"booking_code": b.BookingCode,
			"order_id":     orderID,
		}).Error("gateway create transaction failed")
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	b.Status = domain.BookingPending
	b.PaymentStatus = domain.PaymentPending
	b.Payment = domain.PaymentInfo{
		SnapToken:   snap.Token,
		RedirectURL: snap.RedirectURL,
		OrderID:     orderID,
	}
	if err := s.bookings.Upsert(ctx, b); err != nil {
		s.metrics.PaymentCreated("store_error")
		return nil, fmt.Errorf("save booking: %w", err)
	}
	s.metrics.PaymentCreated("ok")

	s.log.WithFields(logrus.Fields{
		"booking_code": b.BookingCode,
		"order_id":     orderID,
		"total_amount": b.TotalAmount,
	}).Info("payment transaction created")

	s.publish(ctx, events.BookingEvent{
		Type:        events.TypePaymentCreated,
		BookingCode: b.BookingCode,
		Status:      string(b.Status),
		OrderID:     orderID,
		TotalAmount: b.TotalAmount,
		Source:      "create",
	})

	return &CreatePaymentResponse{
		SnapToken:   snap.Token,
		RedirectURL: snap.RedirectURL,
		OrderID:     orderID,
		BookingID:   b.BookingCode,
	}, nil
}

func (s *Service) bookingFromExisting(ctx context.Context, r ExistingBooking) (*domain.Booking, error) {
	b, err := s.bookings.GetByCode(ctx, r.BookingCode)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		b = &domain.Booking{BookingCode: r.BookingCode}
	case err != nil:
		return nil, fmt.Errorf("load booking: %w", err)
	case b.Status == domain.BookingConfirmed || b.Status == domain.BookingCompleted:
		return nil, ErrAlreadyPaid
	}

	b.TotalAmount = r.TotalAmount
	b.CustomerInfo = r.Customer.toDomain()
	if r.JumlahPeserta > 0 {
		b.JumlahPeserta = r.JumlahPeserta
	}
	if b.JumlahPeserta == 0 {
		b.JumlahPeserta = 1
	}
	if r.PackageID > 0 {
		b.PackageID = r.PackageID
	}
	if r.Package != nil {
		b.PackageInfo = domain.PackageSnapshot{
			Name:        r.Package.Name,
			Destination: r.Package.Destination,
			Duration:    r.Package.Duration,
			UnitPrice:   int64(r.Package.Price),
		}
	}
	if r.Schedule != nil {
		b.Schedule = domain.Schedule{StartDate: r.Schedule.StartDate, EndDate: r.Schedule.EndDate}
	}
	if b.PackageID > 0 {
		if err := s.checkAmount(ctx, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// checkAmount rejects a client total that does not match the catalog price of the
// booking's package. Bookings without a package keep the client total.
func (s *Service) checkAmount(ctx context.Context, b *domain.Booking) error {
	pkg, err := s.packages.GetByID(ctx, b.PackageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPackageNotFound
		}
		return fmt.Errorf("load package: %w", err)
	}
	if want := pkg.Price * int64(b.JumlahPeserta); b.TotalAmount != want {
		s.log.WithFields(logrus.Fields{
			"booking_code": b.BookingCode,
			"total_amount": b.TotalAmount,
			"expected":     want,
		}).Warn("payment total does not match package price")
		return &ValidationError{Fields: map[string]string{"totalAmount": "mismatch"}}
	}
	return nil
}

func (s *Service) bookingFromPackage(ctx context.Context, r PackageBooking, now time.Time) (*domain.Booking, error) {
	pkg, err := s.packages.GetByID(ctx, r.PackageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("load package: %w", err)
	}

	snapshot := domain.PackageSnapshot{
		Name:      pkg.Name,
		UnitPrice: pkg.Price,
	}
	if pkg.DurationDays > 0 {
		snapshot.Duration = fmt.Sprintf("%d days", pkg.DurationDays)
	}
	if pkg.Destination != nil {
		snapshot.Destination = pkg.Destination.Name
	}

	b := &domain.Booking{
		BookingCode:   NewBookingCode(now),
		PackageID:     pkg.ID,
		JumlahPeserta: r.JumlahPeserta,
		TotalAmount:   pkg.Price * int64(r.JumlahPeserta),
		PackageInfo:   snapshot,
		CustomerInfo:  r.Customer.toDomain(),
	}
	if r.Schedule != nil {
		b.Schedule = domain.Schedule{StartDate: r.Schedule.StartDate, EndDate: r.Schedule.EndDate}
	}
	return b, nil
}

func (s *Service) snapRequest(b *domain.Booking, orderID string) midtrans.SnapRequest {
	req := midtrans.SnapRequest{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     orderID,
			GrossAmount: b.TotalAmount,
		},
		CustomerDetails: &midtrans.CustomerDetails{
			FirstName: b.CustomerInfo.Name,
			Email:     b.CustomerInfo.Email,
			Phone:     b.CustomerInfo.Phone,
		},
	}

	name := b.PackageInfo.Name
	if name == "" {
		name = "Booking " + b.BookingCode
	}
	if len(name) > maxItemNameLen {
		name = name[:maxItemNameLen]
	}
	itemID := b.BookingCode
	if b.PackageID > 0 {
		itemID = "PKG-" + strconv.FormatInt(b.PackageID, 10)
	}

	// the gateway requires item totals to add up to the gross amount
	unit := b.PackageInfo.UnitPrice
	qty := b.JumlahPeserta
	if unit <= 0 || qty <= 0 || unit*int64(qty) != b.TotalAmount {
		unit, qty = b.TotalAmount, 1
	}
	req.ItemDetails = []midtrans.ItemDetail{{ID: itemID, Name: name, Price: unit, Quantity: qty}}

	if s.finishURL != "" {
		req.Callbacks = &midtrans.Callbacks{Finish: s.finishURL + "?booking_id=" + b.BookingCode}
	}
	return req
}

// HandleNotification applies a gateway notification. The returned outcome is always set;
// the error explains non-applied outcomes. Callers acknowledge the gateway regardless.
func (s *Service) HandleNotification(ctx context.Context, n midtrans.TransactionStatus, raw string) (string, error) {
	if strings.TrimSpace(n.OrderID) == "" {
		return s.webhookOutcome(OutcomeInvalidPayload), ErrMissingOrderID
	}
	if !s.verifier.Verify(n) {
		return s.webhookOutcome(OutcomeInvalidSignature), ErrInvalidSignature
	}

	b, err := s.bookingForOrder(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.webhookOutcome(OutcomeNotFound), ErrBookingNotFound
		}
		return s.webhookOutcome(OutcomeError), err
	}

	prev := b.Status
	changed := s.apply(b, n, raw)
	if err := s.bookings.UpdatePayment(ctx, b); err != nil {
		return s.webhookOutcome(OutcomeError), fmt.Errorf("save booking %s: %w", b.BookingCode, err)
	}

	s.log.WithFields(logrus.Fields{
		"booking_code":       b.BookingCode,
		"order_id":           n.OrderID,
		"transaction_status": n.TransactionStatus,
		"fraud_status":       n.FraudStatus,
		"previous_status":    prev,
		"status":             b.Status,
	}).Info("payment notification applied")

	if prev != b.Status {
		s.statusChanged(ctx, b, prev, "webhook")
	}
	if !changed {
		return s.webhookOutcome(OutcomeUnchanged), nil
	}
	return s.webhookOutcome(OutcomeApplied), nil
}

// bookingForOrder finds the booking by the code embedded in orderID, or by the stored
// order id when orderID has a foreign shape.
func (s *Service) bookingForOrder(ctx context.Context, orderID string) (*domain.Booking, error) {
	if code, ok := ParseBookingCode(s.orderPrefix, orderID); ok {
		return s.bookings.GetByCode(ctx, code)
	}
	s.log.WithField("order_id", orderID).Warn("unexpected order id shape, looking up by stored order id")
	return s.bookings.GetByOrderID(ctx, orderID)
}

// apply overwrites the status and payment fields of b from n and reports whether
// anything visible changed. The last applied notification wins.
func (s *Service) apply(b *domain.Booking, n midtrans.TransactionStatus, raw string) bool {
	before := b.Status
	beforeTx := b.Payment.TransactionStatus
	beforeFraud := b.Payment.FraudStatus

	b.Status = Resolve(n.TransactionStatus, n.FraudStatus)
	b.PaymentStatus = domain.PaymentStatusFor(b.Status, n.TransactionStatus)
	b.Payment.OrderID = n.OrderID
	b.Payment.TransactionStatus = n.TransactionStatus
	b.Payment.FraudStatus = n.FraudStatus
	if n.TransactionID != "" {
		b.Payment.TransactionID = n.TransactionID
	}
	if n.PaymentType != "" {
		b.Payment.Method = n.PaymentType
	}
	if raw != "" {
		b.Payment.LastNotification = raw
	}
	if b.PaymentStatus == domain.PaymentPaid && b.Payment.PaymentDate == nil {
		paidAt := s.paidAt(n)
		b.Payment.PaymentDate = &paidAt
	}

	return before != b.Status || beforeTx != b.Payment.TransactionStatus || beforeFraud != b.Payment.FraudStatus
}

func (s *Service) paidAt(n midtrans.TransactionStatus) time.Time {
	for _, v := range []string{n.SettlementTime, n.TransactionTime} {
		if v == "" {
			continue
		}
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", v, gatewayZone); err == nil {
			return t.UTC()
		}
	}
	return s.now().UTC()
}

func (s *Service) statusChanged(ctx context.Context, b *domain.Booking, prev domain.BookingStatus, source string) {
	s.metrics.Transition(string(b.Status))
	if s.notifier != nil {
		s.notifier.BookingStatusChanged(b)
	}
	s.publish(ctx, events.BookingEvent{
		Type:              events.TypeBookingStatusChanged,
		BookingCode:       b.BookingCode,
		Status:            string(b.Status),
		PreviousStatus:    string(prev),
		PaymentStatus:     string(b.PaymentStatus),
		TransactionStatus: b.Payment.TransactionStatus,
		OrderID:           b.Payment.OrderID,
		TotalAmount:       b.TotalAmount,
		Source:            source,
	})
}

func (s *Service) publish(ctx context.Context, ev events.BookingEvent) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = s.now().UTC()
	}
	if err := s.publisher.Publish(ctx, ev.BookingCode, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"type":         ev.Type,
			"booking_code": ev.BookingCode,
		}).Warn("publish booking event failed")
	}
}

func (s *Service) webhookOutcome(outcome string) string {
	s.metrics.Webhook(outcome)
	return outcome
}

// FindBooking accepts a native id or a booking code.
func (s *Service) FindBooking(ctx context.Context, ref string) (*domain.Booking, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrBookingNotFound
	}

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
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetStatus returns the booking status, first reconciling with the gateway when an
// order is on file and the booking is not terminal. Gateway failures fall back to the
// stored status.
func (s *Service) GetStatus(ctx context.Context, ref string) (*StatusResponse, error) {
	b, err := s.FindBooking(ctx, ref)
	if err != nil {
		return nil, err
	}

	reconciled := false
	if b.Payment.OrderID != "" && !b.Status.IsTerminal() {
		reconciled, err = s.reconcile(ctx, b)
		if err != nil {
			s.log.WithError(err).WithField("booking_code", b.BookingCode).Warn("status reconciliation failed, returning stored status")
		}
	}
	return newStatusResponse(b, reconciled), nil
}

// reconcile queries the live gateway status and persists it when it differs.
func (s *Service) reconcile(ctx context.Context, b *domain.Booking) (bool, error) {
	start := time.Now()
	st, err := s.gateway.GetStatus(ctx, b.Payment.OrderID)
	s.metrics.GatewayCall("get_status", time.Since(start))
	if err != nil {
		return false, err
	}

	prev := b.Status
	if !s.apply(b, *st, "") {
		return false, nil
	}
	if err := s.bookings.UpdatePayment(ctx, b); err != nil {
		return false, fmt.Errorf("save booking %s: %w", b.BookingCode, err)
	}
	if prev != b.Status {
		s.statusChanged(ctx, b, prev, "reconcile")
	}
	return true, nil
}

// ReconcileAll polls the gateway for every non-terminal booking with an order on file.
func (s *Service) ReconcileAll(ctx context.Context) (ReconcileSummary, error) {
	var sum ReconcileSummary
	list, err := s.bookings.ListReconcilable(ctx)
	if err != nil {
		return sum, err
	}

	for i := range list {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Checked++
		updated, err := s.reconcile(ctx, &list[i])
		if err != nil {
			sum.Failed++
			s.log.WithError(err).WithField("booking_code", list[i].BookingCode).Warn("reconcile failed")
			continue
		}
		if updated {
			sum.Updated++
		}
	}
	return sum, nil
}
