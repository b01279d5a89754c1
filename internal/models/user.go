package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleTraveler = "traveler"
	RoleManager  = "manager" // hotel manager, may change booking statuses
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model `json:"-"`
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	Password   string `json:"-"` // bcrypt hash, never serialized
	Role       string `json:"role" gorm:"size:20;default:traveler"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	// FCM device tokens registered by the user's clients, newline-separated.
	DeviceTokens string `json:"-"`
}

// ToCompact returns the public projection embedded in other payloads.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type RegisterDeviceTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
