package repositories

import (
	"strings"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	AddDeviceToken(userID uint, token string) error
	GetDeviceTokens(userID uint) ([]string, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email from PostgreSQL
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteUser deletes a user by ID from PostgreSQL
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// AddDeviceToken appends an FCM device token to the user's token list,
// ignoring duplicates.
func (r *PostgresUserRepository) AddDeviceToken(userID uint, token string) error {
	user, err := r.GetUserByID(userID)
	if err != nil {
		return err
	}
	for _, t := range strings.Fields(user.DeviceTokens) {
		if t == token {
			return nil
		}
	}
	if user.DeviceTokens == "" {
		user.DeviceTokens = token
	} else {
		user.DeviceTokens += "\n" + token
	}
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("device_tokens", user.DeviceTokens).Error
}

// GetDeviceTokens returns the user's registered FCM device tokens.
func (r *PostgresUserRepository) GetDeviceTokens(userID uint) ([]string, error) {
	user, err := r.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	return strings.Fields(user.DeviceTokens), nil
}
