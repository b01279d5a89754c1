package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types produced by the application.
const (
	NotificationLike           = "like"
	NotificationComment        = "comment"
	NotificationReply          = "reply"
	NotificationBookingStatus  = "booking_status"
	NotificationPaymentOutcome = "payment_outcome"
	NotificationReview         = "review"
)

// NotificationTypes lists every enumerated notification type.
var NotificationTypes = []string{
	NotificationLike,
	NotificationComment,
	NotificationReply,
	NotificationBookingStatus,
	NotificationPaymentOutcome,
	NotificationReview,
}

// Notification represents a user notification (MongoDB).
// Immutable after creation except for Seen, which only ever flips false -> true.
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Recipient uint               `json:"recipient" bson:"recipient"`
	Actor     uint               `json:"actor" bson:"actor"` // 0 for system-generated events
	Type      string             `json:"type" bson:"type"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	BlogID    string             `json:"blog_id,omitempty" bson:"blog_id,omitempty"`
	CommentID string             `json:"comment_id,omitempty" bson:"comment_id,omitempty"`
	BookingID string             `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	ReviewID  string             `json:"review_id,omitempty" bson:"review_id,omitempty"`
	Seen      bool               `json:"seen" bson:"seen"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// ValidNotificationType reports whether t is one of the enumerated types.
func ValidNotificationType(t string) bool {
	for _, known := range NotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ListNotificationsRequest is the body of POST /notifications/list.
// DeletedDocCount compensates the pagination skip for records the client
// deleted since its last fetch.
type ListNotificationsRequest struct {
	Page            int    `json:"page" validate:"required,min=1"`
	Filter          string `json:"filter" validate:"required"`
	DeletedDocCount int    `json:"deletedDocCount" validate:"min=0"`
}

// CountNotificationsRequest is the body of POST /notifications/count.
type CountNotificationsRequest struct {
	Filter string `json:"filter" validate:"required"`
}
