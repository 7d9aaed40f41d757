package client

import (
	"context"
	"errors"

	"github.com/anonto42/loop/backend/pkg/optimistic"
)

// ErrNotLoaded is returned when toggling a record the session has not loaded.
var ErrNotLoaded = errors.New("record not loaded in session")

// API is the subset of Client a Session drives.
type API interface {
	Feed(ctx context.Context, limit int) ([]Post, error)
	Profile(ctx context.Context, username string) (*Profile, error)
	Like(ctx context.Context, postID uint) error
	Unlike(ctx context.Context, postID uint) error
	Bookmark(ctx context.Context, postID uint) error
	Unbookmark(ctx context.Context, postID uint) error
	Follow(ctx context.Context, username string) error
	Unfollow(ctx context.Context, username string) error
}

// FollowState is the locally held follow flag and follower count of a profile.
type FollowState struct {
	IsFollowing bool
	Followers   int64
}

// Session holds one viewer's loaded posts and profiles and applies toggles
// optimistically: the local record flips at once, and is restored from a
// snapshot if the API call fails. Successful toggles are not re-fetched.
type Session struct {
	api     API
	posts   *optimistic.Store[uint, Post]
	follows *optimistic.Store[string, FollowState]
}

// NewSession creates an empty Session over api.
func NewSession(api API) *Session {
	return &Session{
		api:     api,
		posts:   optimistic.NewStore[uint, Post](),
		follows: optimistic.NewStore[string, FollowState](),
	}
}

// LoadFeed fetches the feed and replaces the local copies of its posts.
func (s *Session) LoadFeed(ctx context.Context, limit int) ([]Post, error) {
	posts, err := s.api.Feed(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		s.posts.Set(p.ID, p)
	}
	return posts, nil
}

// LoadProfile fetches a profile and replaces its local follow state.
func (s *Session) LoadProfile(ctx context.Context, username string) (*Profile, error) {
	p, err := s.api.Profile(ctx, username)
	if err != nil {
		return nil, err
	}
	s.follows.Set(username, FollowState{IsFollowing: p.IsFollowing, Followers: p.Followers})
	return p, nil
}

// Post returns the local copy of a post.
func (s *Session) Post(id uint) (Post, bool) {
	return s.posts.Get(id)
}

// Follow returns the local follow state of a profile.
func (s *Session) Follow(username string) (FollowState, bool) {
	return s.follows.Get(username)
}

// ToggleLike flips the like flag and count of a loaded post.
func (s *Session) ToggleLike(ctx context.Context, postID uint) (Post, error) {
	if _, ok := s.posts.Get(postID); !ok {
		return Post{}, ErrNotLoaded
	}
	return s.posts.Update(ctx, postID,
		func(p Post) Post {
			p.IsLiked = !p.IsLiked
			p.LikesCount = step(p.LikesCount, p.IsLiked)
			return p
		},
		func(ctx context.Context, p Post) error {
			if p.IsLiked {
				return s.api.Like(ctx, postID)
			}
			return s.api.Unlike(ctx, postID)
		})
}

// ToggleBookmark flips the saved flag of a loaded post.
func (s *Session) ToggleBookmark(ctx context.Context, postID uint) (Post, error) {
	if _, ok := s.posts.Get(postID); !ok {
		return Post{}, ErrNotLoaded
	}
	return s.posts.Update(ctx, postID,
		func(p Post) Post {
			p.IsSaved = !p.IsSaved
			return p
		},
		func(ctx context.Context, p Post) error {
			if p.IsSaved {
				return s.api.Bookmark(ctx, postID)
			}
			return s.api.Unbookmark(ctx, postID)
		})
}

// ToggleFollow flips the follow flag and follower count of a loaded profile.
func (s *Session) ToggleFollow(ctx context.Context, username string) (FollowState, error) {
	if _, ok := s.follows.Get(username); !ok {
		return FollowState{}, ErrNotLoaded
	}
	return s.follows.Update(ctx, username,
		func(f FollowState) FollowState {
			f.IsFollowing = !f.IsFollowing
			f.Followers = step(f.Followers, f.IsFollowing)
			return f
		},
		func(ctx context.Context, f FollowState) error {
			if f.IsFollowing {
				return s.api.Follow(ctx, username)
			}
			return s.api.Unfollow(ctx, username)
		})
}

// step moves n by one in the given direction, never below zero.
func step(n int64, up bool) int64 {
	if up {
		return n + 1
	}
	if n > 0 {
		return n - 1
	}
	return 0
}
