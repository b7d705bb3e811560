package payment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"travelagency/internal/database"
	"travelagency/internal/domain"
	"travelagency/internal/pkg/logger"
	"travelagency/internal/pkg/midtrans"
	"travelagency/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGateway struct {
	mu       sync.Mutex
	statuses map[string]midtrans.TransactionStatus
	created  []midtrans.SnapRequest
}

func newFakeGateway(t *testing.T) (*fakeGateway, *httptest.Server) {
	t.Helper()
	fg := &fakeGateway{statuses: map[string]midtrans.TransactionStatus{}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /snap/transactions", func(w http.ResponseWriter, r *http.Request) {
		var req midtrans.SnapRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		fg.mu.Lock()
		fg.created = append(fg.created, req)
		fg.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(midtrans.SnapResponse{
			Token:       "snap-" + req.TransactionDetails.OrderID,
			RedirectURL: "https://pay.example/" + req.TransactionDetails.OrderID,
		})
	})
	mux.HandleFunc("GET /v2/{order}/status", func(w http.ResponseWriter, r *http.Request) {
		fg.mu.Lock()
		st, ok := fg.statuses[r.PathValue("order")]
		fg.mu.Unlock()
		if !ok {
			_, _ = w.Write([]byte(`{"status_code":"404","status_message":"Transaction doesn't exist."}`))
			return
		}
		_ = json.NewEncoder(w).Encode(st)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fg, srv
}

type testEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	gateway *fakeGateway
	pkgID   int64
}

func setupEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	dest := &domain.Destination{Name: "Bali", Slug: "bali", Country: "Indonesia"}
	require.NoError(t, db.Create(dest).Error)
	pkg := &domain.TourPackage{Name: "Bali Escape", Price: 500000, DurationDays: 4, DestinationID: &dest.ID, IsActive: true}
	require.NoError(t, db.Create(pkg).Error)

	fg, srv := newFakeGateway(t)
	client := midtrans.NewClient(midtrans.Config{ServerKey: cfg.ServerKey, SnapURL: srv.URL + "/snap", APIURL: srv.URL + "/v2"})

	if cfg.OrderPrefix == "" {
		cfg.OrderPrefix = "TRX"
	}
	log := logger.Discard()
	svc := NewService(
		repository.NewBookingRepository(db),
		repository.NewCrudRepository[domain.TourPackage](db, "Destination"),
		client,
		cfg,
		log,
	)
	h := NewHandler(svc, log, true)

	r := gin.New()
	api := r.Group("/api/payment")
	h.RegisterRoutes(api)
	NewDevHandler(h).RegisterRoutes(api)

	return &testEnv{db: db, router: r, gateway: fg, pkgID: pkg.ID}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch v := body.(type) {
		case string:
			buf.WriteString(v)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(v))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func createBody(pkgID int64) map[string]interface{} {
	return map[string]interface{}{
		"packageId":     pkgID,
		"jumlahPeserta": 2,
		"customerInfo": map[string]string{
			"name":  "Siti",
			"email": "siti@example.com",
			"phone": "0812000111",
		},
		"selectedSchedule": map[string]string{"startDate": "2025-06-01", "endDate": "2025-06-04"},
	}
}

func TestPaymentFlow_CreateThenSettlementWebhook(t *testing.T) {
	env := setupEnv(t, Config{ServerKey: "S"})

	w := env.do(t, http.MethodPost, "/api/payment/create", createBody(env.pkgID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created CreatePaymentResponse
	decode(t, w, &created)
	assert.NotEmpty(t, created.SnapToken)
	assert.True(t, strings.HasPrefix(created.OrderID, "TRX-"+created.BookingID+"-"))

	var stored domain.Booking
	require.NoError(t, env.db.Where("booking_code = ?", created.BookingID).First(&stored).Error)
	assert.Equal(t, int64(1000000), stored.TotalAmount)
	assert.Equal(t, domain.BookingPending, stored.Status)
	assert.Equal(t, domain.PaymentPending, stored.PaymentStatus)
	assert.Equal(t, "Bali", stored.PackageInfo.Destination)
	assert.Equal(t, "2025-06-01", stored.Schedule.StartDate)

	require.Len(t, env.gateway.created, 1)
	assert.Equal(t, int64(1000000), env.gateway.created[0].TransactionDetails.GrossAmount)

	notification := map[string]string{
		"order_id":           created.OrderID,
		"status_code":        "200",
		"gross_amount":       "1000000.00",
		"transaction_status": "settlement",
		"fraud_status":       "accept",
		"transaction_id":     "tx-77",
		"payment_type":       "bank_transfer",
	}
	w = env.do(t, http.MethodPost, "/api/payment/notification", notification)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/payment/status/"+created.BookingID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status StatusResponse
	decode(t, w, &status)
	assert.Equal(t, domain.BookingConfirmed, status.Status)
	assert.Equal(t, domain.PaymentPaid, status.PaymentStatus)
	assert.True(t, status.CanAccessVoucher)
	assert.NotNil(t, status.PaymentDate)
	assert.Equal(t, "bank_transfer", status.PaymentMethod)
	assert.False(t, status.Reconciled)

	// replaying the same notification leaves the booking as it was
	w = env.do(t, http.MethodPost, "/api/payment/webhook", notification)
	require.Equal(t, http.StatusOK, w.Code)
	var again domain.Booking
	require.NoError(t, env.db.First(&again, stored.ID).Error)
	assert.Equal(t, domain.BookingConfirmed, again.Status)
	require.NotNil(t, again.Payment.PaymentDate)
	assert.True(t, again.Payment.PaymentDate.Equal(*status.PaymentDate))
}

func TestPaymentCreate_Validation(t *testing.T) {
	env := setupEnv(t, Config{})

	w := env.do(t, http.MethodPost, "/api/payment/create", `{"packageId": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w, nil).Error.Code)

	body := createBody(env.pkgID)
	body["jumlahPeserta"] = 0
	w = env.do(t, http.MethodPost, "/api/payment/create", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env1 := decode(t, w, nil)
	assert.Equal(t, "gt", env1.Error.Details["jumlahPeserta"])

	body = createBody(env.pkgID)
	body["jumlahPeserta"] = "dua"
	w = env.do(t, http.MethodPost, "/api/payment/create", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/payment/create", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/payment/create", map[string]interface{}{
		"customerInfo": map[string]string{"name": "a", "email": "a@b.co", "phone": "1"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, env.gateway.created)
}

func TestPaymentCreate_NumericStringsAccepted(t *testing.T) {
	env := setupEnv(t, Config{})

	body := createBody(env.pkgID)
	body["jumlahPeserta"] = "3"
	w := env.do(t, http.MethodPost, "/api/payment/create", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created CreatePaymentResponse
	decode(t, w, &created)
	var stored domain.Booking
	require.NoError(t, env.db.Where("booking_code = ?", created.BookingID).First(&stored).Error)
	assert.Equal(t, int64(1500000), stored.TotalAmount)
}

func TestPaymentCreate_PackageNotFound(t *testing.T) {
	env := setupEnv(t, Config{})

	w := env.do(t, http.MethodPost, "/api/payment/create", createBody(9999))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PACKAGE_NOT_FOUND", decode(t, w, nil).Error.Code)
}

func TestPaymentCreate_ExistingBooking(t *testing.T) {
	env := setupEnv(t, Config{})

	w := env.do(t, http.MethodPost, "/api/payment/create", map[string]interface{}{
		"bookingId":     "BK170000000000042",
		"totalAmount":   "750000",
		"jumlahPeserta": 1,
		"customerInfo":  map[string]string{"name": "Andi", "email": "andi@example.com", "phone": "0813"},
		"packageInfo":   map[string]interface{}{"name": "Komodo", "price": 750000},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created CreatePaymentResponse
	decode(t, w, &created)
	assert.Equal(t, "BK170000000000042", created.BookingID)

	var stored domain.Booking
	require.NoError(t, env.db.Where("booking_code = ?", "BK170000000000042").First(&stored).Error)
	assert.Equal(t, int64(750000), stored.TotalAmount)
	assert.Equal(t, "Komodo", stored.PackageInfo.Name)
}

func TestPaymentCreate_BookingCodeMustBeAlphanumeric(t *testing.T) {
	env := setupEnv(t, Config{})

	for _, code := range []string{"a/b?x", "BK-1", "BK 1", "../BK1"} {
		w := env.do(t, http.MethodPost, "/api/payment/create", map[string]interface{}{
			"bookingId":    code,
			"totalAmount":  100000,
			"customerInfo": map[string]string{"name": "Andi", "email": "andi@example.com", "phone": "0813"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, code)
		assert.Equal(t, "alphanum", decode(t, w, nil).Error.Details["bookingId"], code)
	}
	assert.Empty(t, env.gateway.created)
}

func TestPaymentCreate_ExistingBookingPricedFromCatalog(t *testing.T) {
	env := setupEnv(t, Config{})

	body := map[string]interface{}{
		"bookingId":     "BK170000000000077",
		"packageId":     env.pkgID,
		"jumlahPeserta": 2,
		"totalAmount":   1000,
		"customerInfo":  map[string]string{"name": "Andi", "email": "andi@example.com", "phone": "0813"},
	}
	w := env.do(t, http.MethodPost, "/api/payment/create", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "mismatch", decode(t, w, nil).Error.Details["totalAmount"])

	body["totalAmount"] = 1000000
	w = env.do(t, http.MethodPost, "/api/payment/create", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestNotification_AlwaysAcknowledged(t *testing.T) {
	env := setupEnv(t, Config{ServerKey: "S", IsProduction: true})

	for _, body := range []string{
		`garbage`,
		`{}`,
		`{"order_id":"TRX-BKNOPE-1-abc","status_code":"200","gross_amount":"1.00","signature_key":"bad","transaction_status":"settlement"}`,
	} {
		w := env.do(t, http.MethodPost, "/api/payment/callback", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	}
}

func TestNotification_ProductionRequiresSignature(t *testing.T) {
	env := setupEnv(t, Config{ServerKey: "S", IsProduction: true})

	w := env.do(t, http.MethodPost, "/api/payment/create", createBody(env.pkgID))
	require.Equal(t, http.StatusOK, w.Code)
	var created CreatePaymentResponse
	decode(t, w, &created)

	n := map[string]string{
		"order_id":           created.OrderID,
		"status_code":        "200",
		"gross_amount":       "1000000.00",
		"transaction_status": "settlement",
		"signature_key":      "forged",
	}
	env.do(t, http.MethodPost, "/api/payment/notification", n)

	var b domain.Booking
	require.NoError(t, env.db.Where("booking_code = ?", created.BookingID).First(&b).Error)
	assert.Equal(t, domain.BookingPending, b.Status)

	n["signature_key"] = midtrans.Signature(created.OrderID, "200", "1000000.00", "S")
	env.do(t, http.MethodPost, "/api/payment/notification", n)
	require.NoError(t, env.db.Where("booking_code = ?", created.BookingID).First(&b).Error)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestStatus_ReconcilesWithGateway(t *testing.T) {
	env := setupEnv(t, Config{})

	w := env.do(t, http.MethodPost, "/api/payment/create", createBody(env.pkgID))
	require.Equal(t, http.StatusOK, w.Code)
	var created CreatePaymentResponse
	decode(t, w, &created)

	env.gateway.mu.Lock()
	env.gateway.statuses[created.OrderID] = midtrans.TransactionStatus{
		StatusCode:        "407",
		OrderID:           created.OrderID,
		TransactionStatus: "expire",
	}
	env.gateway.mu.Unlock()

	var stored domain.Booking
	require.NoError(t, env.db.Where("booking_code = ?", created.BookingID).First(&stored).Error)

	w = env.do(t, http.MethodGet, "/api/payment/status/"+jsonID(stored.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status StatusResponse
	decode(t, w, &status)
	assert.True(t, status.Reconciled)
	assert.Equal(t, domain.BookingCancelled, status.Status)
	assert.Equal(t, domain.PaymentExpired, status.PaymentStatus)
	assert.False(t, status.CanAccessVoucher)

	w = env.do(t, http.MethodGet, "/api/payment/status/BK-unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatus_OmitsCustomerData(t *testing.T) {
	env := setupEnv(t, Config{})

	body := createBody(env.pkgID)
	body["customerInfo"] = map[string]string{
		"name":    "Ani",
		"email":   "ani@example.com",
		"phone":   "0812",
		"address": "Jl. Melati 1",
	}
	w := env.do(t, http.MethodPost, "/api/payment/create", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created CreatePaymentResponse
	decode(t, w, &created)

	var stored domain.Booking
	require.NoError(t, env.db.Where("booking_code = ?", created.BookingID).First(&stored).Error)

	for _, ref := range []string{jsonID(stored.ID), created.BookingID} {
		w = env.do(t, http.MethodGet, "/api/payment/status/"+ref, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var data map[string]interface{}
		decode(t, w, &data)
		assert.Equal(t, created.BookingID, data["bookingId"])
		assert.NotContains(t, data, "customerInfo")
		assert.NotContains(t, data, "redirectUrl")
		assert.NotContains(t, w.Body.String(), "ani@example.com")
		assert.NotContains(t, w.Body.String(), "Jl. Melati 1")
		assert.NotContains(t, w.Body.String(), "pay.example")
	}
}

func TestDevEndpoints(t *testing.T) {
	env := setupEnv(t, Config{ServerKey: "S", IsProduction: true})

	w := env.do(t, http.MethodPost, "/api/payment/create", createBody(env.pkgID))
	require.Equal(t, http.StatusOK, w.Code)
	var created CreatePaymentResponse
	decode(t, w, &created)

	w = env.do(t, http.MethodPost, "/api/payment/dev/simulate-webhook", map[string]string{
		"bookingId":          created.BookingID,
		"transaction_status": "capture",
		"fraud_status":       "challenge",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sim map[string]string
	decode(t, w, &sim)
	assert.Equal(t, OutcomeApplied, sim["outcome"])

	var status StatusResponse
	w = env.do(t, http.MethodPost, "/api/payment/dev/simulate-success/"+created.BookingID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &status)
	assert.Equal(t, domain.BookingConfirmed, status.Status)
	assert.True(t, status.CanAccessVoucher)

	w = env.do(t, http.MethodPost, "/api/payment/dev/reset-status/"+created.BookingID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &status)
	assert.Equal(t, domain.BookingPending, status.Status)
	assert.Nil(t, status.PaymentDate)

	w = env.do(t, http.MethodGet, "/api/payment/dev/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, w, &list)
	assert.Equal(t, 1, list.Count)
}

func jsonID(id int64) string {
	data, _ := json.Marshal(id)
	return string(data)
}
