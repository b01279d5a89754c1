// Package notifier is the single creation primitive behind every notification
// the application produces. Persistence is synchronous; realtime and device
// push are best-effort side channels layered on top of it.
package notifier

import (
	"context"
	"log"
	"time"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/realtime"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
)

// Publisher pushes an event to a user's live connections.
type Publisher interface {
	Publish(userID uint, event realtime.Event)
}

// DevicePusher delivers a device push (FCM) to a set of tokens.
type DevicePusher interface {
	Push(ctx context.Context, tokens []string, title, message string)
}

// Event describes a notification to produce.
type Event struct {
	Recipient uint
	Actor     uint // 0 for system events
	Type      string
	Title     string
	Message   string
	BlogID    string
	CommentID string
	BookingID string
	ReviewID  string
}

// Notifier persists notifications and fans them out.
type Notifier struct {
	repo   repositories.NotificationRepository
	users  repositories.UserRepository
	hub    Publisher
	pusher DevicePusher // nil when FCM is not configured
}

// New creates a Notifier. pusher may be nil.
func New(repo repositories.NotificationRepository, users repositories.UserRepository, hub Publisher, pusher DevicePusher) *Notifier {
	return &Notifier{repo: repo, users: users, hub: hub, pusher: pusher}
}

// Notify persists the notification record, then attempts live delivery.
// Creation succeeds or fails atomically and never depends on delivery; push
// failures are logged and dropped because the store stays authoritative.
// Self-triggered events (actor == recipient) are persisted but never pushed,
// matching the read-side visibility predicate.
func (n *Notifier) Notify(ctx context.Context, ev Event) error {
	record := &models.Notification{
		Recipient: ev.Recipient,
		Actor:     ev.Actor,
		Type:      ev.Type,
		Title:     ev.Title,
		Message:   ev.Message,
		BlogID:    ev.BlogID,
		CommentID: ev.CommentID,
		BookingID: ev.BookingID,
		ReviewID:  ev.ReviewID,
	}
	if err := n.repo.Create(ctx, record); err != nil {
		return err
	}

	if ev.Actor == ev.Recipient {
		return nil
	}

	if n.hub != nil {
		n.hub.Publish(ev.Recipient, realtime.Event{Kind: "notification", Payload: record})
	}

	if n.pusher != nil {
		go n.pushToDevices(ev)
	}

	return nil
}

func (n *Notifier) pushToDevices(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tokens, err := n.users.GetDeviceTokens(ev.Recipient)
	if err != nil {
		log.Printf("Failed to load device tokens for user %d: %v", ev.Recipient, err)
		return
	}
	if len(tokens) == 0 {
		return
	}
	n.pusher.Push(ctx, tokens, ev.Title, ev.Message)
}
