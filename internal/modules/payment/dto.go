package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/pkg/validator"
)

// flexInt accepts a JSON number or a numeric string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != float64(int64(v)) {
		return fmt.Errorf("%q is not a whole number", s)
	}
	*f = flexInt(int64(v))
	return nil
}

type CustomerInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (c CustomerInput) toDomain() domain.CustomerInfo {
	return domain.CustomerInfo{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:   strings.TrimSpace(c.Phone),
		Address: c.Address,
		Notes:   c.Notes,
	}
}

type PackageInput struct {
	Name        string  `json:"name"`
	Destination string  `json:"destination"`
	Duration    string  `json:"duration"`
	Price       flexInt `json:"price"`
}

type ScheduleInput struct {
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// CreatePaymentRequest is the wire body of POST /payment/create. It carries one of
// two shapes; Parse decides which.
type CreatePaymentRequest struct {
	BookingID        string         `json:"bookingId"`
	PackageID        flexInt        `json:"packageId"`
	JumlahPeserta    flexInt        `json:"jumlahPeserta"`
	TotalAmount      flexInt        `json:"totalAmount"`
	CustomerInfo     *CustomerInput `json:"customerInfo"`
	PackageInfo      *PackageInput  `json:"packageInfo"`
	SelectedSchedule *ScheduleInput `json:"selectedSchedule"`
}

// ExistingBooking pays for a booking the client already created and priced.
type ExistingBooking struct {
	BookingCode   string         `json:"bookingId" validate:"required,max=32,alphanum"`
	TotalAmount   int64          `json:"totalAmount" validate:"gt=0"`
	JumlahPeserta int            `json:"jumlahPeserta" validate:"gte=0"`
	PackageID     int64          `json:"packageId" validate:"gte=0"`
	Customer      CustomerInput  `json:"customerInfo"`
	Package       *PackageInput  `json:"packageInfo"`
	Schedule      *ScheduleInput `json:"selectedSchedule"`
}

// PackageBooking creates a new booking priced from the stored package.
type PackageBooking struct {
	PackageID     int64          `json:"packageId" validate:"gt=0"`
	JumlahPeserta int            `json:"jumlahPeserta" validate:"gt=0"`
	Customer      CustomerInput  `json:"customerInfo"`
	Schedule      *ScheduleInput `json:"selectedSchedule"`
}

// PaymentRequest is either ExistingBooking or PackageBooking.
type PaymentRequest interface {
	customer() CustomerInput
}

func (r ExistingBooking) customer() CustomerInput { return r.Customer }
func (r PackageBooking) customer() CustomerInput  { return r.Customer }

// Parse validates the body and returns the variant it describes.
func (r CreatePaymentRequest) Parse() (PaymentRequest, error) {
	if r.CustomerInfo == nil {
		return nil, &ValidationError{Fields: map[string]string{"customerInfo": "required"}}
	}

	var out PaymentRequest
	switch {
	case strings.TrimSpace(r.BookingID) != "":
		out = ExistingBooking{
			BookingCode:   strings.TrimSpace(r.BookingID),
			TotalAmount:   int64(r.TotalAmount),
			JumlahPeserta: int(r.JumlahPeserta),
			PackageID:     int64(r.PackageID),
			Customer:      *r.CustomerInfo,
			Package:       r.PackageInfo,
			Schedule:      r.SelectedSchedule,
		}
	case r.PackageID != 0:
		out = PackageBooking{
			PackageID:     int64(r.PackageID),
			JumlahPeserta: int(r.JumlahPeserta),
			Customer:      *r.CustomerInfo,
			Schedule:      r.SelectedSchedule,
		}
	default:
		return nil, &ValidationError{Fields: map[string]string{"bookingId": "bookingId or packageId is required"}}
	}

	if errs := validator.Validate(out); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	return out, nil
}

type CreatePaymentResponse struct {
	SnapToken   string `json:"snap_token"`
	RedirectURL string `json:"redirect_url"`
	OrderID     string `json:"order_id"`
	BookingID   string `json:"booking_id"`
}

// StatusResponse is served without authentication, so it carries no customer contact
// data and no payment page URL.
type StatusResponse struct {
	ID                int64                  `json:"id"`
	BookingID         string                 `json:"bookingId"`
	Status            domain.BookingStatus   `json:"status"`
	PaymentStatus     domain.PaymentStatus   `json:"paymentStatus"`
	CanAccessVoucher  bool                   `json:"canAccessVoucher"`
	TotalAmount       int64                  `json:"totalAmount"`
	JumlahPeserta     int                    `json:"jumlahPeserta"`
	PackageInfo       domain.PackageSnapshot `json:"packageInfo"`
	SelectedSchedule  domain.Schedule        `json:"selectedSchedule"`
	OrderID           string                 `json:"orderId,omitempty"`
	TransactionID     string                 `json:"transactionId,omitempty"`
	TransactionStatus string                 `json:"transactionStatus,omitempty"`
	PaymentMethod     string                 `json:"paymentMethod,omitempty"`
	PaymentDate       *time.Time             `json:"paymentDate,omitempty"`
	Reconciled        bool                   `json:"reconciled"`
}

func newStatusResponse(b *domain.Booking, reconciled bool) *StatusResponse {
	return &StatusResponse{
		ID:                b.ID,
		BookingID:         b.BookingCode,
		Status:            b.Status,
		PaymentStatus:     b.PaymentStatus,
		CanAccessVoucher:  b.CanAccessVoucher(),
		TotalAmount:       b.TotalAmount,
		JumlahPeserta:     b.JumlahPeserta,
		PackageInfo:       b.PackageInfo,
		SelectedSchedule:  b.Schedule,
		OrderID:           b.Payment.OrderID,
		TransactionID:     b.Payment.TransactionID,
		TransactionStatus: b.Payment.TransactionStatus,
		PaymentMethod:     b.Payment.Method,
		PaymentDate:       b.Payment.PaymentDate,
		Reconciled:        reconciled,
	}
}

// SimulateWebhookRequest drives the notification path without the gateway.
type SimulateWebhookRequest struct {
	BookingID         string `json:"bookingId"`
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

type ReconcileSummary struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

type WebhookAck struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func rawJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
