package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hotel represents a hotel listing (MongoDB).
type Hotel struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ManagerID     uint               `json:"manager_id" bson:"manager_id"`
	Name          string             `json:"name" bson:"name"`
	City          string             `json:"city" bson:"city"`
	Address       string             `json:"address" bson:"address"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	ImageURLs     []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	RatingAvg     float64            `json:"rating_avg" bson:"rating_avg"`
	ReviewsCount  int64              `json:"reviews_count" bson:"reviews_count"`
	CheapestPrice int64              `json:"cheapest_price" bson:"cheapest_price"` // VND
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateHotelRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=200"`
	City          string   `json:"city" validate:"required"`
	Address       string   `json:"address" validate:"required"`
	Description   string   `json:"description,omitempty"`
	ImageURLs     []string `json:"image_urls,omitempty" validate:"dive,url"`
	CheapestPrice int64    `json:"cheapest_price" validate:"min=0"`
}

type UpdateHotelRequest struct {
	Name          string   `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	City          string   `json:"city,omitempty"`
	Address       string   `json:"address,omitempty"`
	Description   string   `json:"description,omitempty"`
	ImageURLs     []string `json:"image_urls,omitempty" validate:"dive,url"`
	CheapestPrice int64    `json:"cheapest_price,omitempty" validate:"min=0"`
}
