package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"travelagency/internal/pkg/response"
	"travelagency/internal/pkg/validator"
	"travelagency/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type store[T any] interface {
	List(ctx context.Context, page, limit int) ([]T, int64, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id int64) error
}

// Resource serves list/get publicly and create/update/delete for admins on one table.
type Resource[T any] struct {
	path    string
	repo    store[T]
	setID   func(*T, int64)
	prepare func(ctx context.Context, v *T) error
	log     *logrus.Logger
}

func NewResource[T any](path string, repo store[T], setID func(*T, int64), prepare func(context.Context, *T) error, log *logrus.Logger) *Resource[T] {
	if prepare == nil {
		prepare = func(context.Context, *T) error { return nil }
	}
	return &Resource[T]{path: path, repo: repo, setID: setID, prepare: prepare, log: log}
}

func (r *Resource[T]) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/"+r.path, r.List)
	public.GET("/"+r.path+"/:id", r.Get)

	admin.POST("/"+r.path, r.Create)
	admin.PUT("/"+r.path+"/:id", r.Update)
	admin.DELETE("/"+r.path+"/:id", r.Delete)
}

func (r *Resource[T]) List(c *gin.Context) {
	page, limit := pageParams(c)
	items, total, err := r.repo.List(c.Request.Context(), page, limit)
	if err != nil {
		r.writeError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	response.Paginated(c, items, response.NewPagination(page, limit, total))
}

func (r *Resource[T]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := r.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		r.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (r *Resource[T]) Create(c *gin.Context) {
	item, ok := r.bind(c)
	if !ok {
		return
	}
	r.setID(item, 0)

	ctx := c.Request.Context()
	if err := r.prepare(ctx, item); err != nil {
		r.writeError(c, err)
		return
	}
	if err := r.repo.Create(ctx, item); err != nil {
		r.writeError(c, err)
		return
	}
	r.log.WithField("resource", r.path).Info("catalog item created")
	response.Success(c, http.StatusCreated, item)
}

func (r *Resource[T]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, ok := r.bind(c)
	if !ok {
		return
	}
	r.setID(item, id)

	ctx := c.Request.Context()
	if err := r.prepare(ctx, item); err != nil {
		r.writeError(c, err)
		return
	}
	if err := r.repo.Update(ctx, item); err != nil {
		r.writeError(c, err)
		return
	}

	fresh, err := r.repo.GetByID(ctx, id)
	if err != nil {
		r.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, fresh)
}

func (r *Resource[T]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := r.repo.Delete(c.Request.Context(), id); err != nil {
		r.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "deleted", gin.H{"id": id})
}

func (r *Resource[T]) bind(c *gin.Context) (*T, bool) {
	item := new(T)
	if err := c.ShouldBindJSON(item); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return nil, false
	}
	if errs := validator.Validate(item); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", errs)
		return nil, false
	}
	return item, true
}

func (r *Resource[T]) writeError(c *gin.Context, err error) {
	var refErr *ReferenceError
	switch {
	case errors.As(err, &refErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced item does not exist",
			map[string]int64{refErr.Field: refErr.ID})
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Item not found")
	case errors.Is(err, repository.ErrDuplicate):
		response.Error(c, http.StatusConflict, "CONFLICT", "Item already exists")
	default:
		r.log.WithError(err).WithField("resource", r.path).Error("catalog request failed")
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

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}
