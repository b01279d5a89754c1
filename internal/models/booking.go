package models

import "time"

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingPaid      = "paid"
)

// Booking represents a room booking (PostgreSQL).
type Booking struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Reference string    `json:"reference" gorm:"uniqueIndex;size:36"`
	UserID    uint      `json:"user_id" gorm:"index"`
	HotelID   string    `json:"hotel_id" gorm:"size:24;index"`
	RoomID    string    `json:"room_id" gorm:"size:24;index"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Guests    int       `json:"guests"`
	TotalVND  int64     `json:"total_vnd"`
	Status    string    `json:"status" gorm:"size:20;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateBookingRequest struct {
	HotelID  string `json:"hotel_id" validate:"required"`
	RoomID   string `json:"room_id" validate:"required"`
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests   int    `json:"guests" validate:"required,min=1,max=20"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}
