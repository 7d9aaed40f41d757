package repositories

import (
	"context"

	"github.com/anonto42/loop/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSearchHistoryRepository implements SearchHistoryRepository for MongoDB
type MongoSearchHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoSearchHistoryRepository creates a new MongoSearchHistoryRepository
func NewMongoSearchHistoryRepository(db *mongo.Database) *MongoSearchHistoryRepository {
	return &MongoSearchHistoryRepository{collection: db.Collection("search_history")}
}

// EnsureIndexes creates the (user_id, created_at desc) index used by RecentSearches.
func (r *MongoSearchHistoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// AddSearch inserts a search entry. The caller assigns ID and CreatedAt.
func (r *MongoSearchHistoryRepository) AddSearch(ctx context.Context, entry *models.SearchHistory) error {
	_, err := r.collection.InsertOne(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// RecentSearches retrieves a user's latest searches, newest first
func (r *MongoSearchHistoryRepository) RecentSearches(ctx context.Context, userID uint, limit int) ([]models.SearchHistory, error) {
	entries := []models.SearchHistory{}
	findOptions := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
