package auth

import (
	"context"
	"errors"
	"net/http"

	"travelagency/internal/middleware"
	"travelagency/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler manages the HTTP side of authentication.
type Handler struct {
	service *Service
	log     *logrus.Logger
}

func NewHandler(service *Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

// RegisterAdminRoutes mounts admin login behind the given throttling middleware.
func (h *Handler) RegisterAdminRoutes(api *gin.RouterGroup, throttle gin.HandlerFunc) {
	api.POST("/admin/auth/login", throttle, h.AdminLogin)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.GetMe)
}

// Register creates a customer account.
// @Summary		Register customer
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"Account data"
// @Success		201	{object}	AuthResponse
// @Failure		409	{object}	map[string]interface{} "Email already registered"
// @Router		/auth/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		h.log.WithError(err).Error("register failed")
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register")
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// Login issues a token for a customer.
// @Summary		Login
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"Credentials"
// @Success		200	{object}	AuthResponse
// @Failure		401	{object}	map[string]interface{} "Invalid credentials"
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	h.login(c, h.service.Login)
}

// AdminLogin issues an admin token.
// @Summary		Admin login
// @Tags		Admin
// @Param		request	body	LoginRequest	true	"Credentials"
// @Success		200	{object}	AuthResponse
// @Failure		429	{object}	map[string]interface{} "Too many attempts"
// @Router		/admin/auth/login [POST]
func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, h.service.AdminLogin)
}

func (h *Handler) login(c *gin.Context, fn func(ctx context.Context, req LoginRequest) (*AuthResponse, error)) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := fn(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		h.log.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// GetMe returns the authenticated customer.
// @Summary		Current user
// @Tags		Users
// @Security	BearerAuth
// @Success		200	{object}	UserPublic
// @Router		/users/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.GetMe(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not found")
			return
		}
		h.log.WithError(err).Error("get current user failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		return
	}
	response.Success(c, http.StatusOK, user)
}
