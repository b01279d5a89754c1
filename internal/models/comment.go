package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment or a reply on a blog (MongoDB).
// A reply carries the parent comment's id in ParentID.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BlogID    string             `json:"blog_id" bson:"blog_id"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	ParentID  string             `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=2000"`
	ParentID string `json:"parent_id,omitempty"`
}
