package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
)

// CommentService builds and mutates the two-level comment tree of a post.
type CommentService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(posts repositories.PostRepository, comments repositories.CommentRepository) *CommentService {
	return &CommentService{posts: posts, comments: comments}
}

// ListComments returns the post's top-level comments, newest first, each
// with its replies. Replies whose parent is not top-level are dropped.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	flat, err := s.comments.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(flat), nil
}

// BuildCommentTree partitions a flat, newest-first comment list into
// top-level comments with their replies in a single pass over each half.
func BuildCommentTree(flat []models.Comment) []models.CommentView {
	tree := make([]models.CommentView, 0, len(flat))
	index := make(map[uint]int, len(flat))
	for _, c := range flat {
		if c.ParentID != nil {
			continue
		}
		index[c.ID] = len(tree)
		tree = append(tree, commentView(c))
	}
	for _, c := range flat {
		if c.ParentID == nil {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			tree[i].Replies = append(tree[i].Replies, commentView(c))
		}
	}
	return tree
}

func commentView(c models.Comment) models.CommentView {
	return models.CommentView{
		ID:        c.ID,
		UserID:    c.UserID,
		PostID:    c.PostID,
		Content:   c.Content,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		User:      c.User.Summary(),
		Replies:   []models.CommentView{},
	}
}

// CreateComment adds a comment or a reply. A parent must be a top-level
// comment on the same post.
func (s *CommentService) CreateComment(ctx context.Context, viewerID, postID uint, req models.CreateCommentRequest) (*models.CommentView, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	if req.ParentID != nil {
		parent, err := s.comments.GetCommentByID(ctx, *req.ParentID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidParent
		}
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID || parent.ParentID != nil {
			return nil, ErrInvalidParent
		}
	}

	comment := &models.Comment{UserID: viewerID, PostID: postID, ParentID: req.ParentID, Content: content}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	view := commentView(*comment)
	return &view, nil
}

// DeleteComment removes the viewer's own comment and its replies.
func (s *CommentService) DeleteComment(ctx context.Context, viewerID, commentID uint) error {
	if viewerID == 0 {
		return ErrUnauthenticated
	}
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrCommentNotFound
	}
	if err != nil {
		return err
	}
	if comment.UserID != viewerID {
		return ErrForbidden
	}
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}
