package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
	"github.com/anonto42/loop/backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLikeToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	p := env.post(t, alice, models.PostTypeText, "x", 0)

	conflicts := metrics.InteractionsTotal.WithLabelValues(KindLike, ActionAdd, metrics.OutcomeConflict)
	before := testutil.ToFloat64(conflicts)

	like, err := env.interactions.Like(ctx, alice.ID, p.ID)
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	if like.ID == 0 || like.PostID != p.ID || like.UserID != alice.ID {
		t.Errorf("like row = %+v", like)
	}
	if _, err := env.interactions.Like(ctx, alice.ID, p.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("second Like: %v", err)
	}
	if got := testutil.ToFloat64(conflicts) - before; got != 1 {
		t.Errorf("conflict outcomes recorded = %v, want 1", got)
	}

	removed, err := env.interactions.Unlike(ctx, alice.ID, p.ID)
	if err != nil || !removed {
		t.Fatalf("Unlike = %v, %v", removed, err)
	}
	removed, err = env.interactions.Unlike(ctx, alice.ID, p.ID)
	if err != nil || removed {
		t.Fatalf("second Unlike = %v, %v", removed, err)
	}

	if _, err := env.interactions.Like(ctx, alice.ID, 9999); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("like missing post: %v", err)
	}
	if _, err := env.interactions.Like(ctx, 0, p.ID); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous like: %v", err)
	}
	if _, err := env.interactions.Unlike(ctx, 0, p.ID); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous unlike: %v", err)
	}
}

func TestBookmarkToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	p := env.post(t, alice, models.PostTypeImage, "x", 0)

	if _, err := env.interactions.Bookmark(ctx, alice.ID, p.ID); err != nil {
		t.Fatalf("Bookmark: %v", err)
	}
	if _, err := env.interactions.Bookmark(ctx, alice.ID, p.ID); !errors.Is(err, ErrAlreadyBookmarked) {
		t.Fatalf("second Bookmark: %v", err)
	}
	if removed, err := env.interactions.Unbookmark(ctx, alice.ID, p.ID); err != nil || !removed {
		t.Fatalf("Unbookmark = %v, %v", removed, err)
	}
	if removed, err := env.interactions.Unbookmark(ctx, alice.ID, p.ID); err != nil || removed {
		t.Fatalf("second Unbookmark = %v, %v", removed, err)
	}
	if _, err := env.interactions.Bookmark(ctx, alice.ID, 9999); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("bookmark missing post: %v", err)
	}
}

func TestFollowToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	env.user(t, "bob")

	if err := env.interactions.Follow(ctx, alice.ID, "alice"); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("self follow: %v", err)
	}
	if err := env.interactions.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := env.interactions.Follow(ctx, alice.ID, "bob"); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("second Follow: %v", err)
	}
	if err := env.interactions.Follow(ctx, alice.ID, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("follow ghost: %v", err)
	}

	prof, _ := env.userSvc.Profile(ctx, alice.ID, "bob")
	if !prof.IsFollowing || prof.Followers != 1 {
		t.Errorf("profile after follow = %+v", prof)
	}

	if removed, err := env.interactions.Unfollow(ctx, alice.ID, "bob"); err != nil || !removed {
		t.Fatalf("Unfollow = %v, %v", removed, err)
	}
	if removed, err := env.interactions.Unfollow(ctx, alice.ID, "bob"); err != nil || removed {
		t.Fatalf("second Unfollow = %v, %v", removed, err)
	}
	if _, err := env.interactions.Unfollow(ctx, alice.ID, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unfollow ghost: %v", err)
	}
}

func TestCreateAndDeletePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	if _, err := env.postSvc.CreatePost(ctx, alice.ID, models.CreatePostRequest{Content: "x", Type: "video"}); !errors.Is(err, ErrInvalidPostType) {
		t.Fatalf("type video: %v", err)
	}
	if _, err := env.postSvc.CreatePost(ctx, alice.ID, models.CreatePostRequest{Content: "  ", Type: "text"}); !errors.Is(err, ErrEmptyPost) {
		t.Fatalf("blank post: %v", err)
	}
	if _, err := env.postSvc.CreatePost(ctx, 0, models.CreatePostRequest{Content: "x", Type: "text"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous post: %v", err)
	}

	view, err := env.postSvc.CreatePost(ctx, alice.ID, models.CreatePostRequest{URL: "https://cdn/clip.mp4", Type: "reel"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if view.Type != models.PostTypeVideo || view.ImageURL != "https://cdn/clip.mp4" || view.User == nil || view.User.Username != "alice" {
		t.Errorf("created view = %+v", view)
	}
	if view.LikesCount != 0 || view.IsLiked {
		t.Errorf("new post should be unengaged: %+v", view)
	}

	if err := env.postSvc.DeletePost(ctx, bob.ID, view.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete by other: %v", err)
	}
	if err := env.postSvc.DeletePost(ctx, alice.ID, view.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if err := env.postSvc.DeletePost(ctx, alice.ID, view.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("delete twice: %v", err)
	}
}

// Stale reads make the existence check miss a row that is already there,
// the way a concurrent insert would between check and insert.
type staleLikes struct{ repositories.LikeRepository }

func (staleLikes) HasUserLikedPost(context.Context, uint, uint) (bool, error) { return false, nil }

type staleBookmarks struct{ repositories.BookmarkRepository }

func (staleBookmarks) IsBookmarked(context.Context, uint, uint) (bool, error) { return false, nil }

type staleFollows struct{ repositories.FollowRepository }

func (staleFollows) IsFollowing(context.Context, uint, uint) (bool, error) { return false, nil }

func TestToggleUniqueConstraintBackstop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	env.user(t, "bob")
	p := env.post(t, alice, models.PostTypeText, "x", 0)

	svc := NewInteractionService(env.users, env.posts,
		staleLikes{env.likes}, staleBookmarks{env.bookmarks}, staleFollows{env.follows})

	if _, err := svc.Like(ctx, alice.ID, p.ID); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if _, err := svc.Like(ctx, alice.ID, p.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Errorf("racing Like: %v", err)
	}

	if _, err := svc.Bookmark(ctx, alice.ID, p.ID); err != nil {
		t.Fatalf("Bookmark: %v", err)
	}
	if _, err := svc.Bookmark(ctx, alice.ID, p.ID); !errors.Is(err, ErrAlreadyBookmarked) {
		t.Errorf("racing Bookmark: %v", err)
	}

	if err := svc.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := svc.Follow(ctx, alice.ID, "bob"); !errors.Is(err, ErrAlreadyFollowing) {
		t.Errorf("racing Follow: %v", err)
	}

	counts, err := env.likes.CountByPostIDs(ctx, []uint{p.ID})
	if err != nil || counts[p.ID] != 1 {
		t.Errorf("like rows = %v, %v", counts, err)
	}
}
