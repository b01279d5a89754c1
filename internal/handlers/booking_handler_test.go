package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeBookingRepo stores bookings in memory with the same conditional status
// transition as the Postgres implementation. staleReads makes GetBookingByID
// keep reporting pending, standing in for a second request that read the
// booking before a concurrent transition landed.
type fakeBookingRepo struct {
	mu         sync.Mutex
	bookings   map[uint]*models.Booking
	staleReads bool
	listErr    error
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	f := &fakeBookingRepo{bookings: make(map[uint]*models.Booking)}
	for _, b := range bookings {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeBookingRepo) CreateBooking(booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking.ID = uint(len(f.bookings) + 1)
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) GetBookingByID(id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *booking
	if f.staleReads {
		copied.Status = models.BookingPending
	}
	return &copied, nil
}

func (f *fakeBookingRepo) GetBookingsByUserID(userID uint, page, limit int) ([]models.Booking, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) GetBookingsByHotelID(hotelID string, page, limit int) ([]models.Booking, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.HotelID == hotelID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) UpdateBookingStatus(id uint, fromStatus, toStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok || booking.Status != fromStatus {
		return models.ErrConflict
	}
	booking.Status = toStatus
	return nil
}

type stubRoomRepo struct{}

func (stubRoomRepo) CreateRoom(context.Context, *models.Room) error { return nil }
func (stubRoomRepo) GetRoomByID(context.Context, string) (*models.Room, error) {
	return nil, models.ErrNotFound
}
func (stubRoomRepo) GetRoomsByHotelID(context.Context, string) ([]models.Room, error) {
	return nil, nil
}
func (stubRoomRepo) UpdateRoom(context.Context, string, map[string]interface{}) error { return nil }
func (stubRoomRepo) DeleteRoom(context.Context, string) error                         { return nil }

func newBookingFixture(t *testing.T, booking *models.Booking) (*BookingHandler, *fakeBookingRepo, *fakeNotificationRepo, *models.Hotel) {
	t.Helper()
	hotel := &models.Hotel{ID: primitive.NewObjectID(), ManagerID: 9, Name: "Khách sạn Mường Thanh"}
	hotelRepo := newFakeHotelRepo(hotel)
	booking.HotelID = hotel.ID.Hex()

	bookingRepo := newFakeBookingRepo(booking)
	users := &handlerUserRepo{users: map[uint]*models.User{}}
	notifRepo := &fakeNotificationRepo{}
	notify := notifier.New(notifRepo, users, nil, nil)
	h := NewBookingHandler(bookingRepo, stubRoomRepo{}, hotelRepo, notify)
	return h, bookingRepo, notifRepo, hotel
}

func confirmBooking(t *testing.T, h *BookingHandler, bookingID string) error {
	t.Helper()
	c, _ := newTestContext(t, http.MethodPatch, "/bookings/:id/status", `{"status":"confirmed"}`, 9)
	c.SetParamNames("id")
	c.SetParamValues(bookingID)
	return h.UpdateBookingStatus(c)
}

func TestUpdateBookingStatusConfirmsAndNotifies(t *testing.T) {
	booking := &models.Booking{ID: 1, Reference: "ref-1", UserID: 4, Status: models.BookingPending}
	h, bookingRepo, notifRepo, _ := newBookingFixture(t, booking)

	require.NoError(t, confirmBooking(t, h, "1"))
	assert.Equal(t, models.BookingConfirmed, bookingRepo.bookings[1].Status)

	count, err := notifRepo.Count(context.Background(), 4, models.NotificationBookingStatus)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "booker gets a status notification")
}

func TestUpdateBookingStatusLostRaceReturnsConflict(t *testing.T) {
	booking := &models.Booking{ID: 1, Reference: "ref-1", UserID: 4, Status: models.BookingPending}
	h, bookingRepo, notifRepo, _ := newBookingFixture(t, booking)

	require.NoError(t, confirmBooking(t, h, "1"))

	// Second request read pending before the first transition landed; the
	// conditional update is what must reject it.
	bookingRepo.staleReads = true
	err := confirmBooking(t, h, "1")
	assert.Equal(t, http.StatusConflict, httpCode(t, err))
	assert.Equal(t, models.BookingConfirmed, bookingRepo.bookings[1].Status, "winner's status stands")

	count, cerr := notifRepo.Count(context.Background(), 4, models.NotificationBookingStatus)
	require.NoError(t, cerr)
	assert.Equal(t, int64(1), count, "the lost transition must not fan out a second notification")
}

func TestUpdateBookingStatusCannotClobberPaid(t *testing.T) {
	booking := &models.Booking{ID: 1, Reference: "ref-1", UserID: 4, Status: models.BookingPaid}
	h, bookingRepo, _, _ := newBookingFixture(t, booking)

	bookingRepo.staleReads = true
	err := confirmBooking(t, h, "1")
	assert.Equal(t, http.StatusConflict, httpCode(t, err))
	assert.Equal(t, models.BookingPaid, bookingRepo.bookings[1].Status)
}

func TestUpdateBookingStatusManagerOnly(t *testing.T) {
	booking := &models.Booking{ID: 1, Reference: "ref-1", UserID: 4, Status: models.BookingPending}
	h, _, _, _ := newBookingFixture(t, booking)

	c, _ := newTestContext(t, http.MethodPatch, "/bookings/:id/status", `{"status":"cancelled"}`, 4)
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := h.UpdateBookingStatus(c)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))
}

func TestGetMyBookingsPropagatesStoreError(t *testing.T) {
	booking := &models.Booking{ID: 1, UserID: 4, Status: models.BookingPending}
	h, bookingRepo, _, _ := newBookingFixture(t, booking)
	bookingRepo.listErr = errors.New("count query failed")

	c, _ := newTestContext(t, http.MethodGet, "/bookings", "", 4)
	err := h.GetMyBookings(c)
	assert.Equal(t, http.StatusInternalServerError, httpCode(t, err))
}
