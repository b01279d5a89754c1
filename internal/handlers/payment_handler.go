package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/notifier"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PaymentHandler handles HTTP requests related to booking payments
type PaymentHandler struct {
	paymentRepository repositories.PaymentRepository
	bookingRepository repositories.BookingRepository
	notifier          *notifier.Notifier
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentRepo repositories.PaymentRepository, bookingRepo repositories.BookingRepository, n *notifier.Notifier) *PaymentHandler {
	return &PaymentHandler{
		paymentRepository: paymentRepo,
		bookingRepository: bookingRepo,
		notifier:          n,
	}
}

// RegisterPaymentRoutes registers payment-related routes
func (h *PaymentHandler) RegisterPaymentRoutes(g *echo.Group) {
	g.POST("/payments", h.CreatePayment)
	g.GET("/payments", h.GetMyPayments)
	g.PATCH("/payments/:id/resolve", h.ResolvePayment)
}

// CreatePayment records a payment attempt for a confirmed booking
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.bookingRepository.GetBookingByID(req.BookingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Booking not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if booking.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not your booking")
	}
	if booking.Status != models.BookingConfirmed {
		return echo.NewHTTPError(http.StatusConflict, "Booking must be confirmed before payment")
	}

	payment := &models.Payment{
		TransactionID: uuid.New().String(),
		BookingID:     booking.ID,
		UserID:        currentUserID,
		AmountVND:     booking.TotalVND,
		Method:        req.Method,
		Status:        models.PaymentPending,
	}
	if err := h.paymentRepository.CreatePayment(payment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, payment)
}

// GetMyPayments returns the current user's payments
func (h *PaymentHandler) GetMyPayments(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	payments, err := h.paymentRepository.GetPaymentsByUserID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}

// ResolvePayment finalizes a pending payment (gateway callback stand-in) and
// notifies the payer of the outcome. A successful payment flips the booking
// to paid.
func (h *PaymentHandler) ResolvePayment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payment ID")
	}

	var req models.ResolvePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	payment, err := h.paymentRepository.GetPaymentByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Payment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if payment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not your payment")
	}

	if err := h.paymentRepository.ResolvePayment(payment.ID, req.Status); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusConflict, "Payment already resolved")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	payment.Status = req.Status

	if req.Status == models.PaymentSuccess {
		// Only a confirmed booking may flip to paid
		if err := h.bookingRepository.UpdateBookingStatus(payment.BookingID, models.BookingConfirmed, models.BookingPaid); err != nil {
			log.Printf("Failed to mark booking %d as paid: %v", payment.BookingID, err)
		}
	}

	outcome := "Thanh toán thành công"
	if req.Status == models.PaymentFailed {
		outcome = "Thanh toán thất bại"
	}
	if err := h.notifier.Notify(c.Request().Context(), notifier.Event{
		Recipient: payment.UserID,
		Actor:     0, // system event
		Type:      models.NotificationPaymentOutcome,
		Title:     "Kết quả thanh toán",
		Message:   fmt.Sprintf("%s cho giao dịch %s", outcome, payment.TransactionID),
		BookingID: strconv.FormatUint(uint64(payment.BookingID), 10),
	}); err != nil {
		log.Printf("Failed to create payment outcome notification: %v", err)
	}

	return c.JSON(http.StatusOK, payment)
}
