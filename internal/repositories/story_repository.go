package repositories

import (
	"context"
	"time"

	"github.com/anonto42/loop/backend/internal/models"
	"gorm.io/gorm"
)

// StoryRepository defines the interface for story data operations.
// Every read takes the caller's notion of now and skips rows with expires_at <= now.
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetActiveStory(ctx context.Context, id uint, now time.Time) (*models.Story, error)
	GetStoryByID(ctx context.Context, id uint) (*models.Story, error)
	ListActiveByUsers(ctx context.Context, userIDs []uint, now time.Time) ([]models.Story, error)
	ListActiveByUser(ctx context.Context, userID uint, now time.Time) ([]models.Story, error)
	DeleteStory(ctx context.Context, id uint) error
}

// PostgresStoryRepository implements StoryRepository over gorm
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

func (r *PostgresStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	return translate(r.db.WithContext(ctx).Create(story).Error)
}

func (r *PostgresStoryRepository) GetActiveStory(ctx context.Context, id uint, now time.Time) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).Preload("User").
		Where("id = ? AND expires_at > ?", id, now).
		First(&story).Error
	if err != nil {
		return nil, translate(err)
	}
	return &story, nil
}

// GetStoryByID ignores expiry; it backs ownership checks on delete.
func (r *PostgresStoryRepository) GetStoryByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.WithContext(ctx).First(&story, id).Error; err != nil {
		return nil, translate(err)
	}
	return &story, nil
}

// ListActiveByUsers returns active stories of the given authors, oldest first.
func (r *PostgresStoryRepository) ListActiveByUsers(ctx context.Context, userIDs []uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	if len(userIDs) == 0 {
		return stories, nil
	}
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id IN ? AND expires_at > ?", userIDs, now).
		Order("created_at ASC").Order("id ASC").
		Find(&stories).Error
	return stories, err
}

func (r *PostgresStoryRepository) ListActiveByUser(ctx context.Context, userID uint, now time.Time) ([]models.Story, error) {
	return r.ListActiveByUsers(ctx, []uint{userID}, now)
}

func (r *PostgresStoryRepository) DeleteStory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Story{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
