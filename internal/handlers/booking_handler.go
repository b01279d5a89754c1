package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/notifier"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BookingHandler handles HTTP requests related to room bookings
type BookingHandler struct {
	bookingRepository repositories.BookingRepository
	roomRepository    repositories.RoomRepository
	hotelRepository   repositories.HotelRepository
	notifier          *notifier.Notifier
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingRepo repositories.BookingRepository, roomRepo repositories.RoomRepository, hotelRepo repositories.HotelRepository, n *notifier.Notifier) *BookingHandler {
	return &BookingHandler{
		bookingRepository: bookingRepo,
		roomRepository:    roomRepo,
		hotelRepository:   hotelRepo,
		notifier:          n,
	}
}

// RegisterBookingRoutes registers booking-related routes
func (h *BookingHandler) RegisterBookingRoutes(g *echo.Group) {
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings", h.GetMyBookings)
	g.GET("/bookings/:id", h.GetBooking)
	g.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
	g.GET("/hotels/:id/bookings", h.GetHotelBookings)
}

// CreateBooking books a room for the current user
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	checkIn, _ := time.Parse("2006-01-02", req.CheckIn)
	checkOut, _ := time.Parse("2006-01-02", req.CheckOut)
	if !checkOut.After(checkIn) {
		return echo.NewHTTPError(http.StatusBadRequest, "Check-out must be after check-in")
	}

	room, err := h.roomRepository.GetRoomByID(c.Request().Context(), req.RoomID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Room not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if room.HotelID != req.HotelID {
		return echo.NewHTTPError(http.StatusBadRequest, "Room does not belong to this hotel")
	}
	if !room.Available {
		return echo.NewHTTPError(http.StatusConflict, "Room is not available")
	}
	if req.Guests > room.MaxGuests {
		return echo.NewHTTPError(http.StatusBadRequest, "Too many guests for this room")
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	booking := &models.Booking{
		Reference: uuid.New().String(),
		UserID:    currentUserID,
		HotelID:   req.HotelID,
		RoomID:    req.RoomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    req.Guests,
		TotalVND:  nights * room.PriceVND,
		Status:    models.BookingPending,
	}

	if err := h.bookingRepository.CreateBooking(booking); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, booking)
}

// GetMyBookings returns the current user's bookings
func (h *BookingHandler) GetMyBookings(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	bookings, total, err := h.bookingRepository.GetBookingsByUserID(currentUserID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings, "total": total, "page": page})
}

// GetHotelBookings returns a hotel's bookings, manager only
func (h *BookingHandler) GetHotelBookings(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	hotelID := c.Param("id")
	hotel, err := h.hotelRepository.GetHotelByID(c.Request().Context(), hotelID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Hotel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hotel.ManagerID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the hotel manager can list its bookings")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	bookings, total, err := h.bookingRepository.GetBookingsByHotelID(hotelID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings, "total": total, "page": page})
}

// GetBooking returns one booking, visible to the booker or the hotel manager
func (h *BookingHandler) GetBooking(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid booking ID")
	}

	booking, err := h.bookingRepository.GetBookingByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Booking not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if booking.UserID != currentUserID {
		hotel, err := h.hotelRepository.GetHotelByID(c.Request().Context(), booking.HotelID)
		if err != nil || hotel.ManagerID != currentUserID {
			return echo.NewHTTPError(http.StatusForbidden, "Not your booking")
		}
	}
	return c.JSON(http.StatusOK, booking)
}

// UpdateBookingStatus lets the hotel manager confirm or cancel a pending
// booking and notifies the booker.
func (h *BookingHandler) UpdateBookingStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid booking ID")
	}

	var req models.UpdateBookingStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.bookingRepository.GetBookingByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Booking not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hotel, err := h.hotelRepository.GetHotelByID(c.Request().Context(), booking.HotelID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hotel.ManagerID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the hotel manager can change booking status")
	}
	if booking.Status != models.BookingPending {
		return echo.NewHTTPError(http.StatusConflict, "Booking is no longer pending")
	}

	// Conditional on pending so a racing confirm/cancel loses cleanly
	if err := h.bookingRepository.UpdateBookingStatus(booking.ID, models.BookingPending, req.Status); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "Booking is no longer pending")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	booking.Status = req.Status

	statusVN := "đã được xác nhận"
	if req.Status == models.BookingCancelled {
		statusVN = "đã bị hủy"
	}
	if err := h.notifier.Notify(c.Request().Context(), notifier.Event{
		Recipient: booking.UserID,
		Actor:     currentUserID,
		Type:      models.NotificationBookingStatus,
		Title:     "Cập nhật đặt phòng",
		Message:   fmt.Sprintf("Đặt phòng %s tại %s %s", booking.Reference, hotel.Name, statusVN),
		BookingID: strconv.FormatUint(uint64(booking.ID), 10),
	}); err != nil {
		log.Printf("Failed to create booking status notification: %v", err)
	}

	return c.JSON(http.StatusOK, booking)
}
