package repository

import (
	"context"
	"strings"

	"travelagency/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type BookingFilter struct {
	Status domain.BookingStatus
	Email  string
	Page   int
	Limit  int
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return mapError(r.db.WithContext(ctx).Create(b).Error)
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("booking_code = ?", code).First(&b).Error; err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *BookingRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("payment_order_id = ?", orderID).First(&b).Error; err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

// Upsert inserts b, or overwrites the existing row with the same booking code.
// On return b.ID and timestamps reflect the stored row.
func (r *BookingRepository) Upsert(ctx context.Context, b *domain.Booking) error {
	return mapError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Booking
		err := tx.Where("booking_code = ?", b.BookingCode).First(&existing).Error
		switch {
		case err == nil:
			b.ID = existing.ID
			b.CreatedAt = existing.CreatedAt
			return tx.Save(b).Error
		case mapError(err) == ErrNotFound:
			return tx.Create(b).Error
		default:
			return err
		}
	}))
}

// UpdatePayment writes the status and payment columns of b. There is no version check:
// concurrent writers for the same booking overwrite each other.
func (r *BookingRepository) UpdatePayment(ctx context.Context, b *domain.Booking) error {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"status":                     b.Status,
		"payment_status":             b.PaymentStatus,
		"payment_snap_token":         b.Payment.SnapToken,
		"payment_redirect_url":       b.Payment.RedirectURL,
		"payment_order_id":           b.Payment.OrderID,
		"payment_transaction_id":     b.Payment.TransactionID,
		"payment_transaction_status": b.Payment.TransactionStatus,
		"payment_fraud_status":       b.Payment.FraudStatus,
		"payment_method":             b.Payment.Method,
		"payment_payment_date":       b.Payment.PaymentDate,
		"payment_last_notification":  b.Payment.LastNotification,
	})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, paymentStatus domain.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         status,
		"payment_status": paymentStatus,
	})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, int64, error) {
	page, limit := normalizePage(f.Page, f.Limit)

	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if email := strings.TrimSpace(f.Email); email != "" {
		q = q.Where("LOWER(customer_email) = ?", strings.ToLower(email))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapError(err)
	}

	var out []domain.Booking
	err := q.Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, mapError(err)
	}
	return out, total, nil
}

// ListAll returns every booking, newest first, optionally filtered by status.
func (r *BookingRepository) ListAll(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Booking
	if err := q.Find(&out).Error; err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// ListReconcilable returns non-terminal bookings that already have a gateway order.
func (r *BookingRepository) ListReconcilable(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("status IN ?", []domain.BookingStatus{domain.BookingPending, domain.BookingPendingVerification}).
		Where("payment_order_id <> ''").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *BookingRepository) HasPaidForPackage(ctx context.Context, email string, packageID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("LOWER(customer_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Where("package_id = ?", packageID).
		Where("status IN ?", []domain.BookingStatus{domain.BookingConfirmed, domain.BookingCompleted}).
		Count(&cnt).Error
	if err != nil {
		return false, mapError(err)
	}
	return cnt > 0, nil
}
