package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/notifier"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ReviewHandler handles HTTP requests related to hotel reviews
type ReviewHandler struct {
	reviewRepository repositories.ReviewRepository
	hotelRepository  repositories.HotelRepository
	userRepository   repositories.UserRepository
	notifier         *notifier.Notifier
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewRepo repositories.ReviewRepository, hotelRepo repositories.HotelRepository, userRepo repositories.UserRepository, n *notifier.Notifier) *ReviewHandler {
	return &ReviewHandler{
		reviewRepository: reviewRepo,
		hotelRepository:  hotelRepo,
		userRepository:   userRepo,
		notifier:         n,
	}
}

// RegisterReviewRoutes registers review-related routes
func (h *ReviewHandler) RegisterReviewRoutes(g *echo.Group) {
	g.POST("/hotels/:hotel_id/reviews", h.CreateReview)
	g.GET("/hotels/:hotel_id/reviews", h.GetReviews)
	g.DELETE("/reviews/:id", h.DeleteReview)
}

// CreateReview posts a review on a hotel and notifies its manager
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	hotelID := c.Param("hotel_id")

	var req models.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hotel, err := h.hotelRepository.GetHotelByID(c.Request().Context(), hotelID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Hotel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	review := &models.Review{
		HotelID:  hotelID,
		AuthorID: currentUserID,
		Rating:   req.Rating,
		Content:  req.Content,
	}
	if err := h.reviewRepository.CreateReview(c.Request().Context(), review); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Detached from the request context, which dies when the handler returns
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.hotelRepository.ApplyReview(ctx, hotelID, req.Rating); err != nil {
			log.Printf("Failed to apply review rating to hotel %s: %v", hotelID, err)
		}
	}()

	actor, _ := h.userRepository.GetUserByID(currentUserID)
	actorName := "Ai đó"
	if actor != nil {
		actorName = actor.Name
	}
	if err := h.notifier.Notify(c.Request().Context(), notifier.Event{
		Recipient: hotel.ManagerID,
		Actor:     currentUserID,
		Type:      models.NotificationReview,
		Title:     "Đánh giá mới",
		Message:   fmt.Sprintf("%s đã đánh giá %s %d sao", actorName, hotel.Name, req.Rating),
		ReviewID:  review.ID.Hex(),
	}); err != nil {
		log.Printf("Failed to create review notification: %v", err)
	}

	return c.JSON(http.StatusCreated, review)
}

// GetReviews returns a hotel's reviews, newest first
func (h *ReviewHandler) GetReviews(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	skip := int64((page - 1) * limit)
	reviews, err := h.reviewRepository.GetReviewsByHotelID(c.Request().Context(), c.Param("hotel_id"), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews, "page": page})
}

// DeleteReview deletes a review owned by the current user
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.reviewRepository.DeleteReview(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Review not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
