package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReviewsByHotelID(ctx context.Context, hotelID string, skip, limit int64) ([]models.Review, error)
	DeleteReview(ctx context.Context, id string, authorID uint) error
}

// MongoReviewRepository implements ReviewRepository for MongoDB
type MongoReviewRepository struct {
	collection *mongo.Collection
}

// NewMongoReviewRepository creates a new MongoReviewRepository
func NewMongoReviewRepository(db *mongo.Database) *MongoReviewRepository {
	return &MongoReviewRepository{collection: db.Collection("reviews")}
}

// CreateReview creates a new review in MongoDB
func (r *MongoReviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, review)
	return err
}

// GetReviewsByHotelID retrieves reviews for a hotel, newest first
func (r *MongoReviewRepository) GetReviewsByHotelID(ctx context.Context, hotelID string, skip, limit int64) ([]models.Review, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"hotel_id": hotelID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// DeleteReview deletes a review if owned by authorID
func (r *MongoReviewRepository) DeleteReview(ctx context.Context, id string, authorID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid review ID format: %w", models.ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "author_id": authorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
