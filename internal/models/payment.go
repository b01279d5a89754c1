package models

import "time"

// Payment outcomes.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Payment records a payment attempt for a booking (PostgreSQL).
type Payment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	TransactionID string    `json:"transaction_id" gorm:"uniqueIndex;size:36"`
	BookingID     uint      `json:"booking_id" gorm:"index"`
	UserID        uint      `json:"user_id" gorm:"index"`
	AmountVND     int64     `json:"amount_vnd"`
	Method        string    `json:"method" gorm:"size:20"` // momo, card, bank_transfer
	Status        string    `json:"status" gorm:"size:20;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreatePaymentRequest struct {
	BookingID uint   `json:"booking_id" validate:"required"`
	Method    string `json:"method" validate:"required,oneof=momo card bank_transfer"`
}

type ResolvePaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=success failed"`
}
