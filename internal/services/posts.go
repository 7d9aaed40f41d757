package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
)

// PostService owns post creation and deletion.
type PostService struct {
	posts      repositories.PostRepository
	engagement *EngagementService
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, engagement *EngagementService) *PostService {
	return &PostService{posts: posts, engagement: engagement}
}

// CreatePost stores a post for the viewer. type is one of text, image, reel.
func (s *PostService) CreatePost(ctx context.Context, viewerID uint, req models.CreatePostRequest) (*models.PostView, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	postType, ok := models.ParsePostType(req.Type)
	if !ok {
		return nil, ErrInvalidPostType
	}
	content := strings.TrimSpace(req.Content)
	url := strings.TrimSpace(req.URL)
	if content == "" && url == "" {
		return nil, ErrEmptyPost
	}

	post := &models.Post{UserID: viewerID, Content: content, URL: url, Type: postType}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.engagement.Post(ctx, viewerID, post.ID)
}

// DeletePost removes the viewer's own post along with its likes, bookmarks and comments.
func (s *PostService) DeletePost(ctx context.Context, viewerID, postID uint) error {
	if viewerID == 0 {
		return ErrUnauthenticated
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if post.UserID != viewerID {
		return ErrForbidden
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}
