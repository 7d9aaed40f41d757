package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
	"github.com/anonto42/loop/backend/pkg/metrics"
)

// StoryService manages 24-hour stories. Expired rows are never purged; every
// read filters on expires_at against the service clock.
type StoryService struct {
	stories repositories.StoryRepository
	follows repositories.FollowRepository
	now     Clock
}

// NewStoryService creates a new StoryService. A nil clock means SystemClock.
func NewStoryService(stories repositories.StoryRepository, follows repositories.FollowRepository, now Clock) *StoryService {
	if now == nil {
		now = SystemClock
	}
	return &StoryService{stories: stories, follows: follows, now: now}
}

// CreateStory publishes a story that expires StoryTTL from now.
func (s *StoryService) CreateStory(ctx context.Context, viewerID uint, req models.CreateStoryRequest) (*models.Story, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	caption := strings.TrimSpace(req.Caption)
	url := strings.TrimSpace(req.URL)
	if caption == "" && url == "" {
		return nil, ErrEmptyStory
	}

	now := s.now()
	story := &models.Story{
		UserID:    viewerID,
		URL:       url,
		CreatedAt: now,
		ExpiresAt: now.Add(models.StoryTTL),
	}
	if caption != "" {
		story.Caption = &caption
	}
	if err := s.stories.CreateStory(ctx, story); err != nil {
		return nil, err
	}
	metrics.StoriesCreatedTotal.Inc()
	return story, nil
}

// ActiveStories groups the active stories of the viewer and the accounts the
// viewer follows by author. Stories in a group run oldest first; groups are
// ordered by their most recent story, newest first. Anonymous viewers get
// an empty list.
func (s *StoryService) ActiveStories(ctx context.Context, viewerID uint) ([]models.StoryGroup, error) {
	groups := []models.StoryGroup{}
	if viewerID == 0 {
		return groups, nil
	}

	authors, err := s.follows.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authors = append(authors, viewerID)

	stories, err := s.stories.ListActiveByUsers(ctx, authors, s.now())
	if err != nil {
		return nil, err
	}

	index := make(map[uint]int)
	for _, st := range stories {
		i, ok := index[st.UserID]
		if !ok {
			i = len(groups)
			index[st.UserID] = i
			groups = append(groups, models.StoryGroup{UserID: st.UserID, User: st.User.Summary()})
		}
		groups[i].Stories = append(groups[i].Stories, st)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a := groups[i].Stories[len(groups[i].Stories)-1]
		b := groups[j].Stories[len(groups[j].Stories)-1]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return groups, nil
}

// StoryDetail returns an active story with its author's full active list.
func (s *StoryService) StoryDetail(ctx context.Context, storyID uint) (*models.StoryDetail, error) {
	now := s.now()
	story, err := s.stories.GetActiveStory(ctx, storyID, now)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, err
	}

	all, err := s.stories.ListActiveByUser(ctx, story.UserID, now)
	if err != nil {
		return nil, err
	}
	return &models.StoryDetail{
		Story:      models.StoryWithUser{Story: *story, User: story.User.Summary()},
		AllStories: all,
	}, nil
}

// DeleteStory removes one of the viewer's own stories, expired or not.
func (s *StoryService) DeleteStory(ctx context.Context, viewerID, storyID uint) error {
	if viewerID == 0 {
		return ErrUnauthenticated
	}
	story, err := s.stories.GetStoryByID(ctx, storyID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrStoryNotFound
	}
	if err != nil {
		return err
	}
	if story.UserID != viewerID {
		return ErrForbidden
	}
	if err := s.stories.DeleteStory(ctx, storyID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStoryNotFound
		}
		return err
	}
	return nil
}
