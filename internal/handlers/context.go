package handlers

import (
	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user id set by the JWT
// middleware. Returns 0 when the request is unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// getClaimsFromContext returns the full JWT claims, or nil.
func getClaimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get("user").(*models.JwtCustomClaims)
	return claims
}
