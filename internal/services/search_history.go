package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
)

// RecentSearchLimit is how many history entries are read back.
const RecentSearchLimit = 10

// SearchHistoryService records and replays a user's search terms.
type SearchHistoryService struct {
	repo repositories.SearchHistoryRepository
	now  Clock
}

// NewSearchHistoryService creates a new SearchHistoryService. A nil clock means SystemClock.
func NewSearchHistoryService(repo repositories.SearchHistoryRepository, now Clock) *SearchHistoryService {
	if now == nil {
		now = SystemClock
	}
	return &SearchHistoryService{repo: repo, now: now}
}

// Recent returns the viewer's latest searches, newest first. Anonymous
// viewers get an empty list.
func (s *SearchHistoryService) Recent(ctx context.Context, viewerID uint) ([]models.SearchHistory, error) {
	if viewerID == 0 {
		return []models.SearchHistory{}, nil
	}
	entries, err := s.repo.RecentSearches(ctx, viewerID, RecentSearchLimit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.SearchHistory{}
	}
	return entries, nil
}

// Record appends a term, trimmed and cut to MaxSearchTermLength bytes,
// then returns the refreshed recent list.
func (s *SearchHistoryService) Record(ctx context.Context, viewerID uint, term string) ([]models.SearchHistory, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	term = truncate(strings.TrimSpace(term), models.MaxSearchTermLength)
	if term == "" {
		return nil, ErrInvalidSearchTerm
	}

	entry := &models.SearchHistory{
		ID:          uuid.NewString(),
		UserID:      viewerID,
		SearchQuery: term,
		CreatedAt:   s.now(),
	}
	if err := s.repo.AddSearch(ctx, entry); err != nil {
		return nil, err
	}
	return s.Recent(ctx, viewerID)
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
