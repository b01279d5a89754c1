package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog represents a travel blog post (MongoDB).
type Blog struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	Title         string             `json:"title" bson:"title"`
	Content       string             `json:"content" bson:"content"`
	CoverImageURL string             `json:"cover_image_url,omitempty" bson:"cover_image_url,omitempty"`
	Tags          []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	LikesCount    int64              `json:"likes_count" bson:"likes_count"`
	CommentsCount int64              `json:"comments_count" bson:"comments_count"`
	LikedBy       []uint             `json:"-" bson:"liked_by,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateBlogRequest struct {
	Title         string   `json:"title" validate:"required,min=3,max=200"`
	Content       string   `json:"content" validate:"required"`
	CoverImageURL string   `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	Tags          []string `json:"tags,omitempty" validate:"max=10"`
}

type UpdateBlogRequest struct {
	Title         string   `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Content       string   `json:"content,omitempty"`
	CoverImageURL string   `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	Tags          []string `json:"tags,omitempty" validate:"max=10"`
}
