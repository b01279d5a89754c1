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

// HotelRepository defines the interface for hotel data operations
type HotelRepository interface {
	CreateHotel(ctx context.Context, hotel *models.Hotel) error
	GetHotelByID(ctx context.Context, id string) (*models.Hotel, error)
	GetHotels(ctx context.Context, city string, skip, limit int64) ([]models.Hotel, error)
	UpdateHotel(ctx context.Context, id string, hotel *models.Hotel) error
	DeleteHotel(ctx context.Context, id string) error
	// ApplyReview folds a new rating into the hotel's running average.
	ApplyReview(ctx context.Context, hotelID string, rating int) error
}

// MongoHotelRepository implements HotelRepository for MongoDB
type MongoHotelRepository struct {
	collection *mongo.Collection
}

// NewMongoHotelRepository creates a new MongoHotelRepository
func NewMongoHotelRepository(db *mongo.Database) *MongoHotelRepository {
	return &MongoHotelRepository{collection: db.Collection("hotels")}
}

// CreateHotel creates a new hotel in MongoDB
func (r *MongoHotelRepository) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	hotel.ID = primitive.NewObjectID()
	hotel.CreatedAt = time.Now()
	hotel.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, hotel)
	return err
}

// GetHotelByID retrieves a hotel by ID from MongoDB
func (r *MongoHotelRepository) GetHotelByID(ctx context.Context, id string) (*models.Hotel, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid hotel ID format: %w", models.ErrNotFound)
	}

	var hotel models.Hotel
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&hotel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &hotel, nil
}

// GetHotels retrieves hotels with optional city filter and pagination
func (r *MongoHotelRepository) GetHotels(ctx context.Context, city string, skip, limit int64) ([]models.Hotel, error) {
	filter := bson.M{}
	if city != "" {
		filter["city"] = city
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var hotels []models.Hotel
	if err = cursor.All(ctx, &hotels); err != nil {
		return nil, err
	}
	return hotels, nil
}

// UpdateHotel updates an existing hotel in MongoDB
func (r *MongoHotelRepository) UpdateHotel(ctx context.Context, id string, hotel *models.Hotel) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid hotel ID format: %w", models.ErrNotFound)
	}

	hotel.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":           hotel.Name,
			"city":           hotel.City,
			"address":        hotel.Address,
			"description":    hotel.Description,
			"image_urls":     hotel.ImageURLs,
			"cheapest_price": hotel.CheapestPrice,
			"updated_at":     hotel.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteHotel deletes a hotel by ID from MongoDB
func (r *MongoHotelRepository) DeleteHotel(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid hotel ID format: %w", models.ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ApplyReview folds one rating into rating_avg and bumps reviews_count.
// Read-modify-write; concurrent reviews may skew the average slightly,
// accepted for a display-only figure.
func (r *MongoHotelRepository) ApplyReview(ctx context.Context, hotelID string, rating int) error {
	hotel, err := r.GetHotelByID(ctx, hotelID)
	if err != nil {
		return err
	}

	newCount := hotel.ReviewsCount + 1
	newAvg := (hotel.RatingAvg*float64(hotel.ReviewsCount) + float64(rating)) / float64(newCount)

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": hotel.ID},
		bson.M{"$set": bson.M{"rating_avg": newAvg, "reviews_count": newCount}},
	)
	return err
}
