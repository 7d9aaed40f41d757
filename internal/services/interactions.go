package services

import (
	"context"
	"errors"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
	"github.com/anonto42/loop/backend/pkg/logger"
	"github.com/anonto42/loop/backend/pkg/metrics"
)

// Interaction kinds and actions, used as metric labels.
const (
	KindLike     = "like"
	KindBookmark = "bookmark"
	KindFollow   = "follow"

	ActionAdd    = "add"
	ActionRemove = "remove"
)

// InteractionService toggles like, bookmark and follow relationships.
// Adds are strict: an existing row is a conflict. Removes are lenient: an
// absent row succeeds and reports removed=false.
type InteractionService struct {
	users     repositories.UserRepository
	posts     repositories.PostRepository
	likes     repositories.LikeRepository
	bookmarks repositories.BookmarkRepository
	follows   repositories.FollowRepository
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	likes repositories.LikeRepository,
	bookmarks repositories.BookmarkRepository,
	follows repositories.FollowRepository,
) *InteractionService {
	return &InteractionService{users: users, posts: posts, likes: likes, bookmarks: bookmarks, follows: follows}
}

// Like records that viewerID likes postID.
func (s *InteractionService) Like(ctx context.Context, viewerID, postID uint) (like *models.Like, err error) {
	defer func() { record(ctx, KindLike, ActionAdd, err) }()

	if err := s.requirePost(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	liked, err := s.likes.HasUserLikedPost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, ErrAlreadyLiked
	}
	like = &models.Like{UserID: viewerID, PostID: postID}
	if err := s.likes.CreateLike(ctx, like); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	return like, nil
}

// Unlike removes viewerID's like on postID if there is one.
func (s *InteractionService) Unlike(ctx context.Context, viewerID, postID uint) (removed bool, err error) {
	defer func() { recordRemove(ctx, KindLike, removed, err) }()

	if viewerID == 0 {
		return false, ErrUnauthenticated
	}
	return s.likes.DeleteLike(ctx, viewerID, postID)
}

// Bookmark saves postID for viewerID.
func (s *InteractionService) Bookmark(ctx context.Context, viewerID, postID uint) (bookmark *models.Bookmark, err error) {
	defer func() { record(ctx, KindBookmark, ActionAdd, err) }()

	if err := s.requirePost(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	saved, err := s.bookmarks.IsBookmarked(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	if saved {
		return nil, ErrAlreadyBookmarked
	}
	bookmark = &models.Bookmark{UserID: viewerID, PostID: postID}
	if err := s.bookmarks.CreateBookmark(ctx, bookmark); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAlreadyBookmarked
		}
		return nil, err
	}
	return bookmark, nil
}

// Unbookmark removes viewerID's bookmark on postID if there is one.
func (s *InteractionService) Unbookmark(ctx context.Context, viewerID, postID uint) (removed bool, err error) {
	defer func() { recordRemove(ctx, KindBookmark, removed, err) }()

	if viewerID == 0 {
		return false, ErrUnauthenticated
	}
	return s.bookmarks.DeleteBookmark(ctx, viewerID, postID)
}

// Follow makes viewerID follow the account named username.
func (s *InteractionService) Follow(ctx context.Context, viewerID uint, username string) (err error) {
	defer func() { record(ctx, KindFollow, ActionAdd, err) }()

	if viewerID == 0 {
		return ErrUnauthenticated
	}
	target, err := s.resolveUser(ctx, username)
	if err != nil {
		return err
	}
	if target.ID == viewerID {
		return ErrSelfFollow
	}
	following, err := s.follows.IsFollowing(ctx, viewerID, target.ID)
	if err != nil {
		return err
	}
	if following {
		return ErrAlreadyFollowing
	}
	if err := s.follows.CreateFollow(ctx, &models.Follow{FollowerID: viewerID, FollowingID: target.ID}); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// Unfollow removes viewerID's follow of username if there is one.
func (s *InteractionService) Unfollow(ctx context.Context, viewerID uint, username string) (removed bool, err error) {
	defer func() { recordRemove(ctx, KindFollow, removed, err) }()

	if viewerID == 0 {
		return false, ErrUnauthenticated
	}
	target, err := s.resolveUser(ctx, username)
	if err != nil {
		return false, err
	}
	return s.follows.DeleteFollow(ctx, viewerID, target.ID)
}

func (s *InteractionService) requirePost(ctx context.Context, viewerID, postID uint) error {
	if viewerID == 0 {
		return ErrUnauthenticated
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

func (s *InteractionService) resolveUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func record(ctx context.Context, kind, action string, err error) {
	switch {
	case err == nil:
		metrics.RecordInteraction(kind, action, metrics.OutcomeOK)
	case errors.Is(err, ErrAlreadyLiked), errors.Is(err, ErrAlreadyBookmarked),
		errors.Is(err, ErrAlreadyFollowing), errors.Is(err, ErrSelfFollow):
		metrics.RecordInteraction(kind, action, metrics.OutcomeConflict)
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrPostNotFound), errors.Is(err, ErrUserNotFound):
		// client errors are not interesting as interaction outcomes
	default:
		metrics.RecordInteraction(kind, action, metrics.OutcomeError)
		l := logger.Ctx(ctx)
		l.Error().Err(err).Str("kind", kind).Str("action", action).Msg("interaction failed")
	}
}

func recordRemove(ctx context.Context, kind string, removed bool, err error) {
	if err == nil && !removed {
		metrics.RecordInteraction(kind, ActionRemove, metrics.OutcomeNoop)
		return
	}
	record(ctx, kind, ActionRemove, err)
}
