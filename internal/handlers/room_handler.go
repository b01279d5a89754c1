package handlers

import (
	"errors"
	"net/http"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// RoomHandler handles HTTP requests related to hotel rooms
type RoomHandler struct {
	roomRepository  repositories.RoomRepository
	hotelRepository repositories.HotelRepository
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(roomRepo repositories.RoomRepository, hotelRepo repositories.HotelRepository) *RoomHandler {
	return &RoomHandler{
		roomRepository:  roomRepo,
		hotelRepository: hotelRepo,
	}
}

// RegisterRoomRoutes registers room-related routes
func (h *RoomHandler) RegisterRoomRoutes(g *echo.Group) {
	g.POST("/hotels/:hotel_id/rooms", h.CreateRoom)
	g.GET("/hotels/:hotel_id/rooms", h.GetRooms)
	g.PUT("/rooms/:id", h.UpdateRoom)
	g.DELETE("/rooms/:id", h.DeleteRoom)
}

// requireManagedHotel loads the hotel and checks the current user manages it
func (h *RoomHandler) requireManagedHotel(c echo.Context, hotelID string, userID uint) (*models.Hotel, error) {
	hotel, err := h.hotelRepository.GetHotelByID(c.Request().Context(), hotelID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Hotel not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hotel.ManagerID != userID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You can only manage rooms of your own hotels")
	}
	return hotel, nil
}

// CreateRoom creates a room under a hotel managed by the current user
func (h *RoomHandler) CreateRoom(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hotel, err := h.requireManagedHotel(c, c.Param("hotel_id"), currentUserID)
	if err != nil {
		return err
	}

	room := &models.Room{
		HotelID:     hotel.ID.Hex(),
		Title:       req.Title,
		Description: req.Description,
		PriceVND:    req.PriceVND,
		MaxGuests:   req.MaxGuests,
	}
	if err := h.roomRepository.CreateRoom(c.Request().Context(), room); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, room)
}

// GetRooms returns a hotel's rooms, cheapest first
func (h *RoomHandler) GetRooms(c echo.Context) error {
	rooms, err := h.roomRepository.GetRoomsByHotelID(c.Request().Context(), c.Param("hotel_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// UpdateRoom applies a partial update to a room of a managed hotel
func (h *RoomHandler) UpdateRoom(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	room, err := h.roomRepository.GetRoomByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Room not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := h.requireManagedHotel(c, room.HotelID, currentUserID); err != nil {
		return err
	}

	update := map[string]interface{}{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.PriceVND != nil {
		update["price_vnd"] = *req.PriceVND
	}
	if req.MaxGuests != nil {
		update["max_guests"] = *req.MaxGuests
	}
	if req.Available != nil {
		update["available"] = *req.Available
	}

	if err := h.roomRepository.UpdateRoom(c.Request().Context(), c.Param("id"), update); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Room not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Room updated"})
}

// DeleteRoom deletes a room of a managed hotel
func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	room, err := h.roomRepository.GetRoomByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Room not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := h.requireManagedHotel(c, room.HotelID, currentUserID); err != nil {
		return err
	}

	if err := h.roomRepository.DeleteRoom(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
