package ws

import (
	"net/http"

	"misterhr/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub    *Hub
	jwt    jwt.Service
	logger *zap.Logger
}

// NewHandler wires the hub behind the upgrade endpoint. Browsers cannot
// set an Authorization header on a websocket dial, so the access token
// arrives as a "token" query parameter instead.
func NewHandler(hub *Hub, jwtSvc jwt.Service, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, jwt: jwtSvc, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleProgressWS upgrades the connection and streams workflow
// progress events until the client disconnects.
func (h *Handler) HandleProgressWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	if h.jwt != nil {
		claims, err := h.jwt.ValidateToken(c.Query("token"))
		if err != nil || claims.TokenType != jwt.TokenTypeAccess {
			return fiber.ErrUnauthorized
		}
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("ws upgrade failed", zap.Error(err))
			}
			return
		}

		client := NewClient(h.hub, conn)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
