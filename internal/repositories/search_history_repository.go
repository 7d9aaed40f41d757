package repositories

import (
	"context"

	"github.com/anonto42/loop/backend/internal/models"
	"gorm.io/gorm"
)

// SearchHistoryRepository stores the append-only search log.
type SearchHistoryRepository interface {
	AddSearch(ctx context.Context, entry *models.SearchHistory) error
	RecentSearches(ctx context.Context, userID uint, limit int) ([]models.SearchHistory, error)
}

// PostgresSearchHistoryRepository implements SearchHistoryRepository over gorm
type PostgresSearchHistoryRepository struct {
	db *gorm.DB
}

// NewPostgresSearchHistoryRepository creates a new PostgresSearchHistoryRepository
func NewPostgresSearchHistoryRepository(db *gorm.DB) *PostgresSearchHistoryRepository {
	return &PostgresSearchHistoryRepository{db: db}
}

func (r *PostgresSearchHistoryRepository) AddSearch(ctx context.Context, entry *models.SearchHistory) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *PostgresSearchHistoryRepository) RecentSearches(ctx context.Context, userID uint, limit int) ([]models.SearchHistory, error) {
	var entries []models.SearchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
