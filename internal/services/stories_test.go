package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/loop/backend/internal/models"
)

func TestStoriesGroupingAndExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	base := env.now

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	env.follow(t, alice, bob)

	at := func(d time.Duration, who *models.User, caption string) *models.Story {
		t.Helper()
		env.now = base.Add(d)
		s, err := env.storySvc.CreateStory(ctx, who.ID, models.CreateStoryRequest{Caption: caption})
		if err != nil {
			t.Fatalf("CreateStory: %v", err)
		}
		return s
	}
	expired := at(-30*time.Hour, bob, "yesterday")
	bob1 := at(-3*time.Hour, bob, "b1")
	alice1 := at(-2*time.Hour, alice, "a1")
	bob2 := at(-90*time.Minute, bob, "b2")
	alice2 := at(-time.Hour, alice, "a2")
	at(-time.Hour, carol, "not followed")
	env.now = base

	if !alice1.ExpiresAt.Equal(alice1.CreatedAt.Add(models.StoryTTL)) {
		t.Errorf("expires_at = %v, created_at = %v", alice1.ExpiresAt, alice1.CreatedAt)
	}

	groups, err := env.storySvc.ActiveStories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ActiveStories: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %+v", groups)
	}
	if groups[0].UserID != alice.ID || groups[1].UserID != bob.ID {
		t.Fatalf("group order = %d, %d", groups[0].UserID, groups[1].UserID)
	}
	if s := groups[0].Stories; len(s) != 2 || s[0].ID != alice1.ID || s[1].ID != alice2.ID {
		t.Errorf("alice stories = %+v", s)
	}
	if s := groups[1].Stories; len(s) != 2 || s[0].ID != bob1.ID || s[1].ID != bob2.ID {
		t.Errorf("bob stories = %+v", s)
	}
	if groups[1].User.Username != "bob" {
		t.Errorf("group user = %+v", groups[1].User)
	}

	if _, err := env.storySvc.StoryDetail(ctx, expired.ID); !errors.Is(err, ErrStoryNotFound) {
		t.Errorf("expired detail: %v", err)
	}
	detail, err := env.storySvc.StoryDetail(ctx, bob2.ID)
	if err != nil {
		t.Fatalf("StoryDetail: %v", err)
	}
	if detail.Story.ID != bob2.ID || detail.Story.User.Username != "bob" || len(detail.AllStories) != 2 {
		t.Errorf("detail = %+v", detail)
	}

	// bob2 expires exactly now while alice2 is still live.
	env.now = bob2.ExpiresAt
	groups, err = env.storySvc.ActiveStories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ActiveStories at bob2 expiry: %v", err)
	}
	if len(groups) != 1 || groups[0].UserID != alice.ID || len(groups[0].Stories) != 1 || groups[0].Stories[0].ID != alice2.ID {
		t.Errorf("groups at bob2 expiry = %+v", groups)
	}
	if _, err := env.storySvc.StoryDetail(ctx, bob2.ID); !errors.Is(err, ErrStoryNotFound) {
		t.Errorf("detail at expiry instant: %v", err)
	}

	// alice2 expires exactly now.
	env.now = alice2.ExpiresAt
	groups, _ = env.storySvc.ActiveStories(ctx, alice.ID)
	if len(groups) != 0 {
		t.Errorf("all stories should have expired, got %+v", groups)
	}

	anon, err := env.storySvc.ActiveStories(ctx, 0)
	if err != nil || anon == nil || len(anon) != 0 {
		t.Errorf("anonymous = %v, %v", anon, err)
	}
}

func TestCreateAndDeleteStory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	if _, err := env.storySvc.CreateStory(ctx, alice.ID, models.CreateStoryRequest{Caption: "  "}); !errors.Is(err, ErrEmptyStory) {
		t.Fatalf("blank story: %v", err)
	}
	if _, err := env.storySvc.CreateStory(ctx, 0, models.CreateStoryRequest{URL: "x.jpg"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous story: %v", err)
	}

	s, err := env.storySvc.CreateStory(ctx, alice.ID, models.CreateStoryRequest{URL: "x.jpg"})
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	if s.Caption != nil {
		t.Errorf("caption should be nil, got %q", *s.Caption)
	}

	if err := env.storySvc.DeleteStory(ctx, bob.ID, s.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete by other: %v", err)
	}

	// Owners may delete after expiry.
	env.now = env.now.Add(48 * time.Hour)
	if err := env.storySvc.DeleteStory(ctx, alice.ID, s.ID); err != nil {
		t.Fatalf("DeleteStory: %v", err)
	}
	if err := env.storySvc.DeleteStory(ctx, alice.ID, s.ID); !errors.Is(err, ErrStoryNotFound) {
		t.Fatalf("delete twice: %v", err)
	}
}
