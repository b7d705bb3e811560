package booking

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/middleware"
	"travelagency/internal/modules/report"
	"travelagency/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	log     *logrus.Logger
}

func NewHandler(service *Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes mounts customer routes on protected and back-office routes on admin.
func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	protected.GET("/bookings/my", h.MyBookings)
	protected.GET("/bookings/:id", h.Get)
	protected.GET("/bookings/:id/voucher", h.Voucher)

	admin.GET("/admin/bookings", h.List)
	admin.GET("/admin/bookings/export", h.Export)
	admin.PATCH("/admin/bookings/:id/status", h.UpdateStatus)
}

func viewer(c *gin.Context) Viewer {
	return Viewer{Email: middleware.Email(c), Admin: middleware.Role(c) == string(domain.RoleAdmin)}
}

func (h *Handler) MyBookings(c *gin.Context) {
	page, limit := pageParams(c)
	list, total, err := h.service.MyBookings(c.Request.Context(), middleware.Email(c), page, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Paginated(c, list, response.NewPagination(page, limit, total))
}

func (h *Handler) Get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("id"), viewer(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"booking":          b,
		"canAccessVoucher": b.CanAccessVoucher(),
	})
}

func (h *Handler) Voucher(c *gin.Context) {
	v, err := h.service.Voucher(c.Request.Context(), c.Param("id"), viewer(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (h *Handler) List(c *gin.Context) {
	page, limit := pageParams(c)
	list, total, err := h.service.List(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Paginated(c, list, response.NewPagination(page, limit, total))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// Export streams all bookings (optionally one status) as an xlsx workbook.
func (h *Handler) Export(c *gin.Context) {
	list, err := h.service.ListForExport(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := report.WriteBookings(&buf, list, now); err != nil {
		h.writeError(c, err)
		return
	}

	name := fmt.Sprintf("bookings_%s.xlsx", now.Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		// do not reveal that the booking exists
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrVoucherLocked):
		response.Error(c, http.StatusForbidden, "VOUCHER_LOCKED", "Voucher is available after payment is confirmed")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown booking status")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	default:
		h.log.WithError(err).Error("booking request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, limit := 1, 20
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = min(v, 100)
	}
	return page, limit
}
