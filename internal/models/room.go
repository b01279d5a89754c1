package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room represents a bookable room belonging to a hotel (MongoDB).
type Room struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	HotelID     string             `json:"hotel_id" bson:"hotel_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	PriceVND    int64              `json:"price_vnd" bson:"price_vnd"`
	MaxGuests   int                `json:"max_guests" bson:"max_guests"`
	Available   bool               `json:"available" bson:"available"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateRoomRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description,omitempty"`
	PriceVND    int64  `json:"price_vnd" validate:"required,min=0"`
	MaxGuests   int    `json:"max_guests" validate:"required,min=1,max=20"`
}

type UpdateRoomRequest struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description string `json:"description,omitempty"`
	PriceVND    *int64 `json:"price_vnd,omitempty" validate:"omitempty,min=0"`
	MaxGuests   *int   `json:"max_guests,omitempty" validate:"omitempty,min=1,max=20"`
	Available   *bool  `json:"available,omitempty"`
}
