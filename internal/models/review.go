package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review represents a hotel review left by a traveler (MongoDB).
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	HotelID   string             `json:"hotel_id" bson:"hotel_id"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Rating    int                `json:"rating" bson:"rating"` // 1-5
	Content   string             `json:"content,omitempty" bson:"content,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content,omitempty" validate:"max=2000"`
}
