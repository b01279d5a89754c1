package repositories

import (
	"errors"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"gorm.io/gorm"
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	CreateBooking(booking *models.Booking) error
	GetBookingByID(id uint) (*models.Booking, error)
	GetBookingsByUserID(userID uint, page, limit int) ([]models.Booking, int64, error)
	GetBookingsByHotelID(hotelID string, page, limit int) ([]models.Booking, int64, error)
	UpdateBookingStatus(id uint, fromStatus, toStatus string) error
}

// PostgresBookingRepository implements BookingRepository for PostgreSQL
type PostgresBookingRepository struct {
	db *gorm.DB
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(db *gorm.DB) *PostgresBookingRepository {
	return &PostgresBookingRepository{db: db}
}

// CreateBooking creates a new booking in PostgreSQL
func (r *PostgresBookingRepository) CreateBooking(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

// GetBookingByID retrieves a booking by ID from PostgreSQL
func (r *PostgresBookingRepository) GetBookingByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// GetBookingsByUserID retrieves a user's bookings, newest first
func (r *PostgresBookingRepository) GetBookingsByUserID(userID uint, page, limit int) ([]models.Booking, int64, error) {
	return r.paginate("user_id = ?", userID, page, limit)
}

// GetBookingsByHotelID retrieves a hotel's bookings, newest first
func (r *PostgresBookingRepository) GetBookingsByHotelID(hotelID string, page, limit int) ([]models.Booking, int64, error) {
	return r.paginate("hotel_id = ?", hotelID, page, limit)
}

func (r *PostgresBookingRepository) paginate(cond string, arg interface{}, page, limit int) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	if err := r.db.Model(&models.Booking{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&bookings).Error

	return bookings, total, err
}

// UpdateBookingStatus transitions a booking from one status to another as a
// single conditional update. Zero rows affected means the booking moved out of
// fromStatus under a concurrent request, so the transition is lost, not retried.
func (r *PostgresBookingRepository) UpdateBookingStatus(id uint, fromStatus, toStatus string) error {
	res := r.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrConflict
	}
	return nil
}
