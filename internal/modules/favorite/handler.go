package favorite

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"travelagency/internal/domain"
	"travelagency/internal/middleware"
	"travelagency/internal/pkg/response"
	"travelagency/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Repository interface {
	Add(ctx context.Context, f *domain.Favorite) error
	Remove(ctx context.Context, userID, packageID int64) error
	Exists(ctx context.Context, userID, packageID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64, page, limit int) ([]domain.Favorite, int64, error)
}

type PackageGate interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Handler serves the customer's package wishlist.
type Handler struct {
	repo     Repository
	packages PackageGate
	log      *logrus.Logger
}

func NewHandler(repo Repository, packages PackageGate, log *logrus.Logger) *Handler {
	return &Handler{repo: repo, packages: packages, log: log}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	favorites := protected.Group("/favorites")
	{
		favorites.GET("", h.GetFavorites)
		favorites.POST("/:packageId", h.AddFavorite)
		favorites.DELETE("/:packageId", h.RemoveFavorite)
		favorites.GET("/:packageId/check", h.CheckFavorite)
	}
}

// GetFavorites godoc
// @Summary   List wishlist
// @Tags      Favorite
// @Security  BearerAuth
// @Param     page  query int false "Page"  default(1)
// @Param     limit query int false "Limit" default(20)
// @Router    /favorites [get]
func (h *Handler) GetFavorites(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	favorites, total, err := h.repo.ListByUser(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		h.log.WithError(err).Error("list favorites failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get favorites")
		return
	}

	items := make([]FavoriteResponse, 0, len(favorites))
	for i := range favorites {
		items = append(items, ToFavoriteResponse(&favorites[i]))
	}
	response.Paginated(c, items, response.NewPagination(page, limit, total))
}

func (h *Handler) AddFavorite(c *gin.Context) {
	packageID, ok := packageParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	exists, err := h.packages.Exists(ctx, packageID)
	if err != nil {
		h.log.WithError(err).Error("check package failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add favorite")
		return
	}
	if !exists {
		response.Error(c, http.StatusNotFound, "PACKAGE_NOT_FOUND", "Package not found")
		return
	}

	f := &domain.Favorite{UserID: middleware.UserID(c), PackageID: packageID}
	if err := h.repo.Add(ctx, f); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			response.Error(c, http.StatusConflict, "ALREADY_FAVORITE", "Package already in favorites")
			return
		}
		h.log.WithError(err).Error("add favorite failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add favorite")
		return
	}
	response.Success(c, http.StatusCreated, ToFavoriteResponse(f))
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	packageID, ok := packageParam(c)
	if !ok {
		return
	}

	if err := h.repo.Remove(c.Request.Context(), middleware.UserID(c), packageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Favorite not found")
			return
		}
		h.log.WithError(err).Error("remove favorite failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove favorite")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CheckFavorite(c *gin.Context) {
	packageID, ok := packageParam(c)
	if !ok {
		return
	}

	isFavorite, err := h.repo.Exists(c.Request.Context(), middleware.UserID(c), packageID)
	if err != nil {
		h.log.WithError(err).Error("check favorite failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check favorite")
		return
	}
	response.Success(c, http.StatusOK, CheckFavoriteResponse{IsFavorite: isFavorite})
}

func packageParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("packageId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid package id")
		return 0, false
	}
	return id, true
}
