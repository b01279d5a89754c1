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

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlogByID(ctx context.Context, id string) (*models.Blog, error)
	GetBlogs(ctx context.Context, skip, limit int64) ([]models.Blog, error)
	GetBlogsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Blog, error)
	UpdateBlog(ctx context.Context, id string, blog *models.Blog) error
	DeleteBlog(ctx context.Context, id string) error
	// LikeBlog records userID's like and returns false if it was already present.
	LikeBlog(ctx context.Context, blogID string, userID uint) (bool, error)
	UnlikeBlog(ctx context.Context, blogID string, userID uint) (bool, error)
	IncrementCommentsCount(ctx context.Context, blogID string) error
	DecrementCommentsCount(ctx context.Context, blogID string) error
}

// MongoBlogRepository implements BlogRepository for MongoDB
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blogs")}
}

// CreateBlog creates a new blog in MongoDB
func (r *MongoBlogRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, blog)
	return err
}

// GetBlogByID retrieves a blog by ID from MongoDB
func (r *MongoBlogRepository) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID format: %w", models.ErrNotFound)
	}

	var blog models.Blog
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// GetBlogs retrieves blogs with pagination, newest first
func (r *MongoBlogRepository) GetBlogs(ctx context.Context, skip, limit int64) ([]models.Blog, error) {
	return r.findBlogs(ctx, bson.M{}, skip, limit)
}

// GetBlogsByAuthor retrieves blogs written by a specific user
func (r *MongoBlogRepository) GetBlogsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Blog, error) {
	return r.findBlogs(ctx, bson.M{"author_id": authorID}, skip, limit)
}

func (r *MongoBlogRepository) findBlogs(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Blog, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blogs []models.Blog
	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// UpdateBlog updates an existing blog in MongoDB
func (r *MongoBlogRepository) UpdateBlog(ctx context.Context, id string, blog *models.Blog) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid blog ID format: %w", models.ErrNotFound)
	}

	blog.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":           blog.Title,
			"content":         blog.Content,
			"cover_image_url": blog.CoverImageURL,
			"tags":            blog.Tags,
			"updated_at":      blog.UpdatedAt,
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

// DeleteBlog deletes a blog by ID from MongoDB
func (r *MongoBlogRepository) DeleteBlog(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid blog ID format: %w", models.ErrNotFound)
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

// LikeBlog adds userID to the blog's liked_by set and bumps the counter.
// Both happen in one atomic update conditioned on the user not having liked
// yet, so double-likes cannot inflate the count.
func (r *MongoBlogRepository) LikeBlog(ctx context.Context, blogID string, userID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return false, fmt.Errorf("invalid blog ID format: %w", models.ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "liked_by": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"liked_by": userID},
			"$inc":      bson.M{"likes_count": 1},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// UnlikeBlog removes userID from the blog's liked_by set and drops the counter.
func (r *MongoBlogRepository) UnlikeBlog(ctx context.Context, blogID string, userID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return false, fmt.Errorf("invalid blog ID format: %w", models.ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "liked_by": userID},
		bson.M{
			"$pull": bson.M{"liked_by": userID},
			"$inc":  bson.M{"likes_count": -1},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// IncrementCommentsCount increments the comments count of a blog
func (r *MongoBlogRepository) IncrementCommentsCount(ctx context.Context, blogID string) error {
	return r.incCommentsCount(ctx, blogID, 1)
}

// DecrementCommentsCount decrements the comments count of a blog
func (r *MongoBlogRepository) DecrementCommentsCount(ctx context.Context, blogID string) error {
	return r.incCommentsCount(ctx, blogID, -1)
}

func (r *MongoBlogRepository) incCommentsCount(ctx context.Context, blogID string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return fmt.Errorf("invalid blog ID format: %w", models.ErrNotFound)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"comments_count": delta}})
	return err
}
