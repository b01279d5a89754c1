package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// HotelHandler handles HTTP requests related to hotel listings
type HotelHandler struct {
	hotelRepository repositories.HotelRepository
}

// NewHotelHandler creates a new HotelHandler
func NewHotelHandler(hotelRepo repositories.HotelRepository) *HotelHandler {
	return &HotelHandler{hotelRepository: hotelRepo}
}

// RegisterHotelRoutes registers hotel-related routes
func (h *HotelHandler) RegisterHotelRoutes(g *echo.Group) {
	g.POST("/hotels", h.CreateHotel)
	g.GET("/hotels", h.GetHotels)
	g.GET("/hotels/:id", h.GetHotel)
	g.PUT("/hotels/:id", h.UpdateHotel)
	g.DELETE("/hotels/:id", h.DeleteHotel)
}

// CreateHotel creates a hotel listing managed by the current user.
// Manager or admin role required; travelers book, they don't list.
func (h *HotelHandler) CreateHotel(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if claims.Role != models.RoleManager && claims.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Manager role required to list a hotel")
	}
	currentUserID := claims.UserID

	var req models.CreateHotelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hotel := &models.Hotel{
		ManagerID:     currentUserID,
		Name:          req.Name,
		City:          req.City,
		Address:       req.Address,
		Description:   req.Description,
		ImageURLs:     req.ImageURLs,
		CheapestPrice: req.CheapestPrice,
	}

	if err := h.hotelRepository.CreateHotel(c.Request().Context(), hotel); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, hotel)
}

// GetHotels returns hotels with optional ?city= filter and pagination
func (h *HotelHandler) GetHotels(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	skip := int64((page - 1) * limit)
	hotels, err := h.hotelRepository.GetHotels(c.Request().Context(), c.QueryParam("city"), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": hotels, "page": page})
}

// GetHotel returns a single hotel by ID
func (h *HotelHandler) GetHotel(c echo.Context) error {
	hotel, err := h.hotelRepository.GetHotelByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Hotel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, hotel)
}

// UpdateHotel updates a hotel managed by the current user
func (h *HotelHandler) UpdateHotel(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateHotelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hotel, err := h.hotelRepository.GetHotelByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Hotel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hotel.ManagerID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own hotels")
	}

	if req.Name != "" {
		hotel.Name = req.Name
	}
	if req.City != "" {
		hotel.City = req.City
	}
	if req.Address != "" {
		hotel.Address = req.Address
	}
	if req.Description != "" {
		hotel.Description = req.Description
	}
	if req.ImageURLs != nil {
		hotel.ImageURLs = req.ImageURLs
	}
	if req.CheapestPrice > 0 {
		hotel.CheapestPrice = req.CheapestPrice
	}

	if err := h.hotelRepository.UpdateHotel(c.Request().Context(), c.Param("id"), hotel); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, hotel)
}

// DeleteHotel deletes a hotel managed by the current user
func (h *HotelHandler) DeleteHotel(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	hotel, err := h.hotelRepository.GetHotelByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Hotel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hotel.ManagerID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own hotels")
	}

	if err := h.hotelRepository.DeleteHotel(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
