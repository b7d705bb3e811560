package upload

import (
	"errors"
	"net/http"

	"travelagency/internal/middleware"
	"travelagency/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the upload endpoint on admin and serves stored files from root.
func (h *Handler) RegisterRoutes(root gin.IRoutes, admin *gin.RouterGroup) {
	root.Static(StaticURLBase, h.service.BaseDir())
	admin.POST("/admin/uploads", h.Upload)
}

// Upload godoc
// @Summary Upload a file
// @Description Upload an image or PDF. Returns the stored record with its public URL.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Success 201 {object} map[string]interface{}
// @Failure 400,413,500 {object} map[string]interface{}
// @Router /admin/uploads [post]
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSize+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", ErrFileTooLarge.Error())
			return
		}
		response.Error(c, http.StatusBadRequest, "NO_FILE", "no file provided")
		return
	}

	rec, err := h.service.Upload(c.Request.Context(), middleware.UserID(c), fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile):
			response.Error(c, http.StatusBadRequest, "EMPTY_FILE", err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
		case errors.Is(err, ErrInvalidMimeType):
			response.Error(c, http.StatusBadRequest, "INVALID_FILE_TYPE", err.Error())
		default:
			h.service.log.WithError(err).Error("upload failed")
			response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "upload failed")
		}
		return
	}
	response.Success(c, http.StatusCreated, rec)
}
