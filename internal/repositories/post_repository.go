package repositories

import (
	"context"

	"github.com/anonto42/loop/backend/internal/models"
	"gorm.io/gorm"
)

// PostFilter selects candidate posts. Zero-valued fields do not constrain.
type PostFilter struct {
	AuthorIDs  []uint
	Types      []models.PostType
	ExcludeIDs []uint
	Query      string
	Limit      int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
	ListPosts(ctx context.Context, f PostFilter) ([]models.Post, error)
	ListLikedBy(ctx context.Context, userID uint, types []models.PostType) ([]models.Post, error)
	ListSavedBy(ctx context.Context, userID uint, types []models.PostType) ([]models.Post, error)
	CountPostsByUser(ctx context.Context, userID uint) (int64, error)
}

// PostgresPostRepository implements PostRepository over gorm
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Create(post).Error)
}

// GetPostByID retrieves a post and its author.
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// DeletePost removes a post together with its likes, bookmarks and comments.
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&models.Like{}, &models.Bookmark{}} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		// Replies first so the parent reference never dangles.
		if err := tx.Where("post_id = ? AND parent_id IS NOT NULL", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListPosts returns posts matching f, newest first, with authors preloaded.
func (r *PostgresPostRepository) ListPosts(ctx context.Context, f PostFilter) ([]models.Post, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Preload("User")
	if len(f.AuthorIDs) > 0 {
		q = q.Where("user_id IN ?", f.AuthorIDs)
	}
	if len(f.Types) > 0 {
		q = q.Where("type IN ?", f.Types)
	}
	if len(f.ExcludeIDs) > 0 {
		q = q.Where("id NOT IN ?", f.ExcludeIDs)
	}
	if f.Query != "" {
		q = q.Where(`LOWER(content) LIKE ? ESCAPE '\'`, likePattern(f.Query))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var posts []models.Post
	err := q.Order("created_at DESC").Order("id DESC").Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) ListLikedBy(ctx context.Context, userID uint, types []models.PostType) ([]models.Post, error) {
	return r.listThrough(ctx, "likes", userID, types)
}

func (r *PostgresPostRepository) ListSavedBy(ctx context.Context, userID uint, types []models.PostType) ([]models.Post, error) {
	return r.listThrough(ctx, "bookmarks", userID, types)
}

// listThrough lists posts joined through a (user_id, post_id) relation table.
func (r *PostgresPostRepository) listThrough(ctx context.Context, table string, userID uint, types []models.PostType) ([]models.Post, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Preload("User").
		Where("id IN (?)", r.db.Table(table).Select("post_id").Where("user_id = ?", userID))
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}

	var posts []models.Post
	err := q.Order("created_at DESC").Order("id DESC").Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) CountPostsByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
