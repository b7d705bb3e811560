package admin

import (
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the dashboard on admin (expected to carry admin auth).
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/admin/stats", h.GetStats)
	admin.GET("/admin/users", h.GetUsers)
}

// GetStats godoc
// @Summary      Dashboard statistics
// @Description  Customer, package, booking and revenue totals for the back office
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} StatisticsResponse
// @Router       /admin/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("admin statistics failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load statistics")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) GetUsers(c *gin.Context) {
	page := parseIntDefault(c.Query("page"), 1)
	limit := parseIntDefault(c.Query("limit"), 20)

	var filter UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), filter, page, limit)
	if err != nil {
		h.log.WithError(err).Error("admin list users failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load users")
		return
	}
	response.Paginated(c, users, response.NewPagination(page, limit, total))
}

func parseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
