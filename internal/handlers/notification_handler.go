package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/realtime"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// BadgePublisher pushes unseen-count updates to a user's live connections.
type BadgePublisher interface {
	Publish(userID uint, event realtime.Event)
}

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	hub                    BadgePublisher // nil disables badge pushes
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, hub BadgePublisher) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		hub:                    hub,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications/new-notification", h.HasUnseen)
	g.POST("/notifications/list", h.List)
	g.POST("/notifications/count", h.Count)
	g.PATCH("/notifications/:id/read", h.MarkRead)
	g.PATCH("/notifications/read-all", h.MarkAllRead)
	g.DELETE("/notifications/:id", h.Delete)
}

// validFilter accepts "all" or one of the enumerated notification types.
func validFilter(filter string) bool {
	return filter == "all" || models.ValidNotificationType(filter)
}

// HasUnseen reports whether the user has at least one unseen notification.
// No side effects.
func (h *NotificationHandler) HasUnseen(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	available, err := h.notificationRepository.HasUnseen(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"new_notification_available": available})
}

// List returns one page of notifications. The fetched page is marked seen
// asynchronously, so an immediate re-query of HasUnseen may still report
// unseen records from this page.
func (h *NotificationHandler) List(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.ListNotificationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Missing or out-of-range field")
	}
	if !validFilter(req.Filter) {
		return echo.NewHTTPError(http.StatusForbidden, "Unknown notification filter")
	}

	notifications, err := h.notificationRepository.List(
		c.Request().Context(), currentUserID, req.Page, req.Filter, req.DeletedDocCount)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

// Count returns the total number of matching notifications, ignoring pagination.
func (h *NotificationHandler) Count(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CountNotificationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Missing or out-of-range field")
	}
	if !validFilter(req.Filter) {
		return echo.NewHTTPError(http.StatusForbidden, "Unknown notification filter")
	}

	total, err := h.notificationRepository.Count(c.Request().Context(), currentUserID, req.Filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"totalDocs": total})
}

// MarkRead marks one owned notification as read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	n, err := h.notificationRepository.MarkRead(c.Request().Context(), currentUserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.pushBadge(currentUserID)
	return c.JSON(http.StatusOK, n)
}

// MarkAllRead marks every unseen notification as read
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	modified, err := h.notificationRepository.MarkAllRead(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.pushBadge(currentUserID)
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read", "modified": modified})
}

// Delete removes one owned notification. Deleting a notification never undoes
// the event that produced it.
func (h *NotificationHandler) Delete(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	err := h.notificationRepository.Delete(c.Request().Context(), currentUserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.pushBadge(currentUserID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted"})
}

// pushBadge sends the fresh unseen count to the user's live connections,
// fire-and-forget.
func (h *NotificationHandler) pushBadge(userID uint) {
	if h.hub == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		count, err := h.notificationRepository.UnseenCount(ctx, userID)
		if err != nil {
			log.Printf("Failed to compute badge count for user %d: %v", userID, err)
			return
		}
		h.hub.Publish(userID, realtime.Event{Kind: "badge", Payload: realtime.BadgePayload{Count: count}})
	}()
}
