package payment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"travelagency/internal/pkg/midtrans"
	"travelagency/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxNotificationBody = 1 << 20

type Handler struct {
	service *Service
	log     *logrus.Logger
	devMode bool
}

func NewHandler(service *Service, log *logrus.Logger, devMode bool) *Handler {
	return &Handler{service: service, log: log, devMode: devMode}
}

// RegisterRoutes mounts the public payment endpoints on rg (expected at /api/payment).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create", h.CreateTransaction)
	rg.POST("/notification", h.Notification)
	rg.POST("/webhook", h.Notification)
	rg.POST("/callback", h.Notification)
	rg.GET("/status/:bookingId", h.GetStatus)
}

// CreateTransaction godoc
// @Summary      Create payment transaction
// @Description  Opens a hosted payment session for an existing booking or a package
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        body body CreatePaymentRequest true "Payment request"
// @Success      200 {object} CreatePaymentResponse
// @Router       /payment/create [post]
func (h *Handler) CreateTransaction(c *gin.Context) {
	var body CreatePaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.log.WithError(err).Warn("invalid payment create payload")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	req, err := body.Parse()
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp, err := h.service.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Notification godoc
// @Summary      Payment gateway notification
// @Description  Applies a gateway status push. Always acknowledged with 200.
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Success      200 {object} WebhookAck
// @Router       /payment/notification [post]
func (h *Handler) Notification(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNotificationBody))
	if err != nil {
		h.log.WithError(err).Error("read payment notification body failed")
		c.JSON(http.StatusOK, WebhookAck{Success: true})
		return
	}
	h.log.WithField("body", string(raw)).Debug("payment notification received")

	var n midtrans.TransactionStatus
	if err := json.Unmarshal(raw, &n); err != nil {
		h.service.webhookOutcome(OutcomeInvalidPayload)
		h.log.WithError(err).Warn("payment notification is not valid JSON")
		c.JSON(http.StatusOK, WebhookAck{Success: true})
		return
	}

	outcome, err := h.service.HandleNotification(c.Request.Context(), n, string(raw))
	entry := h.log.WithFields(logrus.Fields{"order_id": n.OrderID, "outcome": outcome})
	switch {
	case err == nil:
		entry.Debug("payment notification handled")
	case errors.Is(err, ErrBookingNotFound):
		entry.Warn("payment notification for unknown booking")
	default:
		entry.WithError(err).Error("payment notification not applied")
	}

	// the gateway retries on any non-2xx, so failures are only logged
	c.JSON(http.StatusOK, WebhookAck{Success: true})
}

// GetStatus godoc
// @Summary      Payment status
// @Description  Returns booking status by native id or booking code, reconciling with the gateway first
// @Tags         Payments
// @Produce      json
// @Param        bookingId path string true "Booking id or code"
// @Success      200 {object} StatusResponse
// @Router       /payment/status/{bookingId} [get]
func (h *Handler) GetStatus(c *gin.Context) {
	resp, err := h.service.GetStatus(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", verr.Fields)
	case errors.Is(err, ErrPackageNotFound):
		response.Error(c, http.StatusNotFound, "PACKAGE_NOT_FOUND", "Package not found")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusConflict, "ALREADY_PAID", "Booking is already paid")
	case errors.Is(err, ErrGateway):
		h.log.WithError(err).Error("payment gateway request failed")
		msg := "Failed to create payment transaction"
		if h.devMode {
			msg = err.Error()
		}
		response.Error(c, http.StatusInternalServerError, "PAYMENT_GATEWAY_ERROR", msg)
	default:
		h.log.WithError(err).Error("payment request failed")
		msg := "Internal server error"
		if h.devMode {
			msg = err.Error()
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", msg)
	}
}

// DevHandler serves the development-only payment endpoints. Register it only outside
// production.
type DevHandler struct {
	*Handler
}

func NewDevHandler(h *Handler) *DevHandler {
	return &DevHandler{Handler: h}
}

func (h *DevHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dev := rg.Group("/dev")
	dev.POST("/simulate-success/:bookingId", h.SimulateSuccess)
	dev.GET("/bookings", h.ListBookings)
	dev.POST("/simulate-webhook", h.SimulateWebhook)
	dev.POST("/reset-status/:bookingId", h.ResetStatus)
}

func (h *DevHandler) SimulateSuccess(c *gin.Context) {
	resp, err := h.service.SimulateSuccess(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *DevHandler) ListBookings(c *gin.Context) {
	list, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": len(list), "bookings": list})
}

func (h *DevHandler) SimulateWebhook(c *gin.Context) {
	var req SimulateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	req.TransactionStatus = strings.TrimSpace(req.TransactionStatus)

	outcome, err := h.service.SimulateWebhook(c.Request.Context(), req)
	if err != nil && outcome == "" {
		h.writeError(c, err)
		return
	}
	data := gin.H{"outcome": outcome}
	if err != nil {
		data["error"] = err.Error()
	}
	response.Success(c, http.StatusOK, data)
}

func (h *DevHandler) ResetStatus(c *gin.Context) {
	resp, err := h.service.ResetStatus(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}
