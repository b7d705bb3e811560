package domain

import "time"

type BookingStatus string

const (
	BookingPending             BookingStatus = "pending"
	BookingPendingVerification BookingStatus = "pending_verification"
	BookingConfirmed           BookingStatus = "confirmed"
	BookingCancelled           BookingStatus = "cancelled"
	BookingCompleted           BookingStatus = "completed"
)

// IsTerminal reports whether no gateway event is expected to move the booking any further.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingConfirmed || s == BookingCancelled || s == BookingCompleted
}

func ParseBookingStatus(v string) (BookingStatus, bool) {
	switch BookingStatus(v) {
	case BookingPending, BookingPendingVerification, BookingConfirmed, BookingCancelled, BookingCompleted:
		return BookingStatus(v), true
	}
	return "", false
}

// CanTransition reports whether a manual (admin) status change is allowed.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingPending:
		return to == BookingPendingVerification || to == BookingConfirmed || to == BookingCancelled
	case BookingPendingVerification:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCompleted
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
	PaymentExpired PaymentStatus = "expired"
)

// PaymentStatusFor derives the payment status shown to customers from the booking status
// and the raw gateway transaction status it was resolved from.
func PaymentStatusFor(status BookingStatus, transactionStatus string) PaymentStatus {
	switch status {
	case BookingConfirmed, BookingCompleted:
		return PaymentPaid
	case BookingCancelled:
		if transactionStatus == "expire" {
			return PaymentExpired
		}
		return PaymentFailed
	default:
		return PaymentPending
	}
}

type CustomerInfo struct {
	Name    string `json:"name" gorm:"type:varchar(120)"`
	Email   string `json:"email" gorm:"type:varchar(160);index"`
	Phone   string `json:"phone" gorm:"type:varchar(40)"`
	Address string `json:"address,omitempty" gorm:"type:text"`
	Notes   string `json:"notes,omitempty" gorm:"type:text"`
}

// PackageSnapshot is copied into the booking at creation so later catalog edits
// do not alter historical bookings.
type PackageSnapshot struct {
	Name        string `json:"name" gorm:"type:varchar(200)"`
	Destination string `json:"destination,omitempty" gorm:"type:varchar(200)"`
	Duration    string `json:"duration,omitempty" gorm:"type:varchar(80)"`
	UnitPrice   int64  `json:"price"`
}

type Schedule struct {
	StartDate string `json:"startDate,omitempty" gorm:"type:varchar(10)"`
	EndDate   string `json:"endDate,omitempty" gorm:"type:varchar(10)"`
}

type PaymentInfo struct {
	SnapToken         string     `json:"snapToken,omitempty" gorm:"type:varchar(128)"`
	RedirectURL       string     `json:"redirectUrl,omitempty" gorm:"type:text"`
	OrderID           string     `json:"orderId,omitempty" gorm:"type:varchar(96);index"`
	TransactionID     string     `json:"transactionId,omitempty" gorm:"type:varchar(96)"`
	TransactionStatus string     `json:"transactionStatus,omitempty" gorm:"type:varchar(32)"`
	FraudStatus       string     `json:"fraudStatus,omitempty" gorm:"type:varchar(32)"`
	Method            string     `json:"paymentMethod,omitempty" gorm:"type:varchar(48)"`
	PaymentDate       *time.Time `json:"paymentDate,omitempty"`
	LastNotification  string     `json:"-" gorm:"type:text"`
}

type Booking struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	BookingCode   string          `json:"bookingId" gorm:"type:varchar(32);uniqueIndex;not null"`
	PackageID     int64           `json:"packageId" gorm:"index"`
	JumlahPeserta int             `json:"jumlahPeserta" gorm:"not null"`
	TotalAmount   int64           `json:"totalAmount" gorm:"not null"`
	PackageInfo   PackageSnapshot `json:"packageInfo" gorm:"embedded;embeddedPrefix:package_"`
	CustomerInfo  CustomerInfo    `json:"customerInfo" gorm:"embedded;embeddedPrefix:customer_"`
	Schedule      Schedule        `json:"selectedSchedule" gorm:"embedded;embeddedPrefix:schedule_"`
	Status        BookingStatus   `json:"status" gorm:"type:varchar(32);index;default:'pending'"`
	PaymentStatus PaymentStatus   `json:"paymentStatus" gorm:"type:varchar(32);default:'pending'"`
	Payment       PaymentInfo     `json:"payment" gorm:"embedded;embeddedPrefix:payment_"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CanAccessVoucher is true only once the booking reached the confirmed state.
func (b *Booking) CanAccessVoucher() bool {
	return b.Status == BookingConfirmed
}
