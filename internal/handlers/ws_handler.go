package handlers

import (
	"log"
	"net/http"

	"github.com/danghoang87hl/travelnest/backend/internal/middleware"
	"github.com/danghoang87hl/travelnest/backend/internal/realtime"
	"github.com/labstack/echo/v4"
)

// WSHandler joins WebSocket clients to the realtime hub.
type WSHandler struct {
	hub       *realtime.Hub
	jwtSecret string
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *realtime.Hub, jwtSecret string) *WSHandler {
	return &WSHandler{hub: hub, jwtSecret: jwtSecret}
}

// RegisterWSRoutes registers the realtime endpoint. It sits outside the JWT
// middleware group because browsers cannot set headers on WebSocket upgrades;
// the token travels as a query parameter instead.
func (h *WSHandler) RegisterWSRoutes(e *echo.Echo) {
	e.GET("/ws/notifications", h.Join)
}

// Join authenticates the upgrade request and hands the connection to the hub.
// The server derives the user identity from the token itself; a missing or
// malformed token leaves the connection unjoined and is not treated as a
// server error.
func (h *WSHandler) Join(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	claims, err := middleware.ParseToken(token, h.jwtSecret)
	if err != nil {
		log.Printf("Realtime join rejected: %v", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	return h.hub.Serve(c.Response(), c.Request(), claims.UserID)
}
