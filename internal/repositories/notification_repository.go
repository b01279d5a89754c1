package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationPageSize is the fixed page size of notification listings.
const NotificationPageSize = 10

// NotificationRepository defines the interface for notification operations.
// Visibility everywhere: recipient == user AND actor != user, so self-triggered
// actions never surface to the actor.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	HasUnseen(ctx context.Context, userID uint) (bool, error)
	// List returns one page (newest first). As a side effect the returned
	// page's records are marked seen asynchronously; callers must not rely
	// on the flag being visible immediately after the call returns.
	List(ctx context.Context, userID uint, page int, filter string, deletedOffset int) ([]models.Notification, error)
	Count(ctx context.Context, userID uint, filter string) (int64, error)
	MarkRead(ctx context.Context, userID uint, id string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, userID uint, id string) error
	UnseenCount(ctx context.Context, userID uint) (int64, error)
}

// MongoNotificationRepository implements NotificationRepository for MongoDB.
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// visibleFilter is the base predicate shared by every read operation.
func visibleFilter(userID uint, filter string) bson.M {
	f := bson.M{
		"recipient": userID,
		"actor":     bson.M{"$ne": userID},
	}
	// "all" bypasses the type predicate
	if filter != "" && filter != "all" {
		f["type"] = filter
	}
	return f
}

// Create inserts a new notification
func (r *MongoNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.Seen = false
	n.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// HasUnseen reports whether at least one unseen, visible notification exists.
func (r *MongoNotificationRepository) HasUnseen(ctx context.Context, userID uint) (bool, error) {
	f := visibleFilter(userID, "all")
	f["seen"] = false
	err := r.collection.FindOne(ctx, f, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UnseenCount returns the number of unseen, visible notifications (badge count).
func (r *MongoNotificationRepository) UnseenCount(ctx context.Context, userID uint) (int64, error) {
	f := visibleFilter(userID, "all")
	f["seen"] = false
	return r.collection.CountDocuments(ctx, f)
}

// List returns one page of visible notifications, newest first. The skip is
// (page-1)*10 minus deletedOffset, clamped at zero: MongoDB rejects a negative
// skip outright, so under-skipping can re-show items the client already saw
// after deletions, which is the accepted behavior.
func (r *MongoNotificationRepository) List(ctx context.Context, userID uint, page int, filter string, deletedOffset int) ([]models.Notification, error) {
	skip := (page-1)*NotificationPageSize - deletedOffset
	if skip < 0 {
		skip = 0
	}

	findOptions := options.Find().
		SetSkip(int64(skip)).
		SetLimit(NotificationPageSize).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, visibleFilter(userID, filter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}

	r.markPageSeen(notifications)
	return notifications, nil
}

// markPageSeen flips the fetched page to seen without blocking the response.
// The update is idempotent (seen only ever goes false -> true), so racing a
// concurrent MarkRead/MarkAllRead is harmless.
func (r *MongoNotificationRepository) markPageSeen(page []models.Notification) {
	ids := make([]primitive.ObjectID, 0, len(page))
	for _, n := range page {
		if !n.Seen {
			ids = append(ids, n.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := r.collection.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": ids}},
			bson.M{"$set": bson.M{"seen": true}},
		); err != nil {
			log.Printf("Failed to mark notification page as seen: %v", err)
		}
	}()
}

// Count returns the total number of visible notifications, ignoring pagination.
func (r *MongoNotificationRepository) Count(ctx context.Context, userID uint, filter string) (int64, error) {
	return r.collection.CountDocuments(ctx, visibleFilter(userID, filter))
}

// MarkRead transitions one owned notification to seen and returns it.
// The update is a single atomic conditional operation; calling it again on an
// already-seen record succeeds and returns the record unchanged.
func (r *MongoNotificationRepository) MarkRead(ctx context.Context, userID uint, id string) (*models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid notification ID format: %w", models.ErrNotFound)
	}

	var n models.Notification
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID, "recipient": userID},
		bson.M{"$set": bson.M{"seen": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkAllRead transitions every unseen visible notification to seen and
// returns the number of modified records.
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	f := visibleFilter(userID, "all")
	f["seen"] = false
	res, err := r.collection.UpdateMany(ctx, f, bson.M{"$set": bson.M{"seen": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes one owned notification. Deleting a notification never undoes
// the event that produced it.
func (r *MongoNotificationRepository) Delete(ctx context.Context, userID uint, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %w", models.ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "recipient": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
