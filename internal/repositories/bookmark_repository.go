package repositories

import (
	"context"

	"github.com/anonto42/loop/backend/internal/models"
	"gorm.io/gorm"
)

// BookmarkRepository defines the interface for saved-post operations
type BookmarkRepository interface {
	CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, postID uint) (bool, error)
	IsBookmarked(ctx context.Context, userID, postID uint) (bool, error)
	SavedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresBookmarkRepository implements BookmarkRepository over gorm
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

// NewPostgresBookmarkRepository creates a new PostgresBookmarkRepository
func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	return translate(r.db.WithContext(ctx).Create(bookmark).Error)
}

func (r *PostgresBookmarkRepository) DeleteBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
	return res.RowsAffected > 0, res.Error
}

func (r *PostgresBookmarkRepository) IsBookmarked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// SavedPostIDs returns which of postIDs userID has bookmarked, in one query.
func (r *PostgresBookmarkRepository) SavedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	return postIDSet(r.db.WithContext(ctx), &models.Bookmark{}, userID, postIDs)
}
