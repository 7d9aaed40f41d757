package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
)

// UserService serves profiles and the follow graph.
type UserService struct {
	users   repositories.UserRepository
	posts   repositories.PostRepository
	follows repositories.FollowRepository
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, posts repositories.PostRepository, follows repositories.FollowRepository) *UserService {
	return &UserService{users: users, posts: posts, follows: follows}
}

func (s *UserService) lookup(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Profile returns username's profile with live counts and whether the viewer follows them.
func (s *UserService) Profile(ctx context.Context, viewerID uint, username string) (*models.Profile, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.profileOf(ctx, viewerID, user)
}

func (s *UserService) profileOf(ctx context.Context, viewerID uint, user *models.User) (*models.Profile, error) {
	postsCount, err := s.posts.CountPostsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followers, err := s.follows.GetFollowersCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.GetFollowingCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != 0 && viewerID != user.ID {
		if isFollowing, err = s.follows.IsFollowing(ctx, viewerID, user.ID); err != nil {
			return nil, err
		}
	}

	return &models.Profile{
		ID:            user.ID,
		Username:      user.Username,
		Name:          user.Name,
		Email:         user.Email,
		Bio:           user.Bio,
		ImageURL:      user.Image,
		CoverImageURL: user.CoverImage,
		IsVerified:    user.IsVerified,
		CreatedAt:     user.CreatedAt,
		PostsCount:    postsCount,
		Followers:     followers,
		Following:     following,
		IsFollowing:   isFollowing,
	}, nil
}

// UpdateProfile applies a partial update to the viewer's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, viewerID uint, username string, req models.UpdateProfileRequest) (*models.Profile, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	me, err := s.users.GetUserByID(ctx, viewerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if me.Username != username {
		return nil, ErrForbidden
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Username != nil {
		handle := strings.TrimSpace(*req.Username)
		if !models.ValidUsername(handle) {
			return nil, ErrInvalidUsername
		}
		fields["username"] = handle
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Image != nil {
		fields["image"] = strings.TrimSpace(*req.Image)
	}
	if req.CoverImage != nil {
		fields["cover_image"] = strings.TrimSpace(*req.CoverImage)
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.users.UpdateUser(ctx, me.ID, fields); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}

	updated, err := s.users.GetUserByID(ctx, me.ID)
	if err != nil {
		return nil, err
	}
	return s.profileOf(ctx, 0, updated)
}

// Followers lists the accounts following username.
func (s *UserService) Followers(ctx context.Context, username string) ([]models.UserSummary, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	users, err := s.follows.GetFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// Following lists the accounts username follows.
func (s *UserService) Following(ctx context.Context, username string) ([]models.UserSummary, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	users, err := s.follows.GetFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// Suggestions returns up to ten accounts the viewer neither is nor follows.
// Anonymous viewers get an empty list.
func (s *UserService) Suggestions(ctx context.Context, viewerID uint) ([]models.UserSummary, error) {
	if viewerID == 0 {
		return []models.UserSummary{}, nil
	}
	following, err := s.follows.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListUsersExcept(ctx, append(following, viewerID), suggestionLimit)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func summaries(users []models.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out
}
