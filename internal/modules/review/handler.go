package review

import (
	"errors"
	"net/http"
	"strconv"

	"travelagency/internal/middleware"
	"travelagency/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *Service
	log *logrus.Logger
}

func NewHandler(svc *Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(public, protected, admin *gin.RouterGroup) {
	public.GET("/packages/:id/reviews", h.ListByPackage)
	protected.POST("/reviews", h.Create)
	admin.DELETE("/admin/reviews/:id", h.Delete)
}

// Create posts a review for a package.
// @Summary		Write review
// @Description	Allowed once per package for customers with a confirmed or completed booking.
// @Tags		Reviews
// @Security	BearerAuth
// @Param		request	body	CreateReviewRequest	true	"Review"
// @Success		201	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{} "No paid booking for this package"
// @Failure		409	{object}	map[string]interface{} "Already reviewed"
// @Router		/reviews [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	rv, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), middleware.Email(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rv)
}

func (h *Handler) ListByPackage(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	list, err := h.svc.ListByPackage(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) Delete(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "deleted", gin.H{"id": id})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid review")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, ErrReviewNotAllowed):
		response.Error(c, http.StatusForbidden, "REVIEW_NOT_ALLOWED", "Only travellers with a paid booking can review this package")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "ALREADY_REVIEWED", "You already reviewed this package")
	default:
		h.log.WithError(err).Error("review request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
