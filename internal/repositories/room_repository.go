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

// RoomRepository defines the interface for room data operations
type RoomRepository interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoomByID(ctx context.Context, id string) (*models.Room, error)
	GetRoomsByHotelID(ctx context.Context, hotelID string) ([]models.Room, error)
	UpdateRoom(ctx context.Context, id string, update map[string]interface{}) error
	DeleteRoom(ctx context.Context, id string) error
}

// MongoRoomRepository implements RoomRepository for MongoDB
type MongoRoomRepository struct {
	collection *mongo.Collection
}

// NewMongoRoomRepository creates a new MongoRoomRepository
func NewMongoRoomRepository(db *mongo.Database) *MongoRoomRepository {
	return &MongoRoomRepository{collection: db.Collection("rooms")}
}

// CreateRoom creates a new room in MongoDB
func (r *MongoRoomRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	room.ID = primitive.NewObjectID()
	room.Available = true
	room.CreatedAt = time.Now()
	room.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, room)
	return err
}

// GetRoomByID retrieves a room by ID from MongoDB
func (r *MongoRoomRepository) GetRoomByID(ctx context.Context, id string) (*models.Room, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid room ID format: %w", models.ErrNotFound)
	}

	var room models.Room
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetRoomsByHotelID retrieves all rooms of a hotel
func (r *MongoRoomRepository) GetRoomsByHotelID(ctx context.Context, hotelID string) ([]models.Room, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "price_vnd", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"hotel_id": hotelID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rooms []models.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// UpdateRoom applies a partial update to a room
func (r *MongoRoomRepository) UpdateRoom(ctx context.Context, id string, update map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid room ID format: %w", models.ErrNotFound)
	}

	update["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteRoom deletes a room by ID from MongoDB
func (r *MongoRoomRepository) DeleteRoom(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid room ID format: %w", models.ErrNotFound)
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
