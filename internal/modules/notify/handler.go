package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/pkg/response"
	"travelagency/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type bookingReader interface {
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
}

type Handler struct {
	hub      *Hub
	bookings bookingReader
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, bookings bookingReader, log *logrus.Logger) *Handler {
	return &Handler{
		hub:      hub,
		bookings: bookings,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the booking page is served from the frontend origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws/bookings/:code", h.Watch)
}

// Watch upgrades to a websocket that receives the booking's current status, then every change.
func (h *Handler) Watch(c *gin.Context) {
	code := c.Param("code")
	b, err := h.bookings.GetByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).WithField("booking_code", code).Warn("websocket upgrade failed")
		return
	}

	snapshot, err := json.Marshal(NewStatusEvent(b))
	if err != nil {
		_ = conn.Close()
		return
	}

	cl := h.hub.register(code, conn, snapshot)
	defer h.hub.unregister(code, cl)
	go cl.writePump(pingPeriod)
	h.log.WithField("booking_code", code).Debug("booking watcher connected")

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// inbound frames are ignored; reading keeps pong handling alive and detects close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).WithField("booking_code", code).Debug("booking watcher closed")
			}
			return
		}
	}
}
