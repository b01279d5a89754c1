package repositories

import (
	"errors"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	CreatePayment(payment *models.Payment) error
	GetPaymentByID(id uint) (*models.Payment, error)
	GetPaymentsByUserID(userID uint) ([]models.Payment, error)
	// ResolvePayment transitions a pending payment to success/failed.
	// Returns ErrNotFound if the payment is absent or already resolved.
	ResolvePayment(id uint, status string) error
}

// PostgresPaymentRepository implements PaymentRepository for PostgreSQL
type PostgresPaymentRepository struct {
	db *gorm.DB
}

// NewPostgresPaymentRepository creates a new PostgresPaymentRepository
func NewPostgresPaymentRepository(db *gorm.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

// CreatePayment creates a new payment in PostgreSQL
func (r *PostgresPaymentRepository) CreatePayment(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetPaymentByID retrieves a payment by ID from PostgreSQL
func (r *PostgresPaymentRepository) GetPaymentByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// GetPaymentsByUserID retrieves a user's payments, newest first
func (r *PostgresPaymentRepository) GetPaymentsByUserID(userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

// ResolvePayment transitions a pending payment to its final status.
// Single conditional update, so two concurrent resolutions cannot both win.
func (r *PostgresPaymentRepository) ResolvePayment(id uint, status string) error {
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
