package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/anonto42/loop/backend/internal/models"
)

func TestSearchHistoryRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")

	if _, err := env.historySvc.Record(ctx, alice.ID, "   "); !errors.Is(err, ErrInvalidSearchTerm) {
		t.Fatalf("blank term: %v", err)
	}
	if _, err := env.historySvc.Record(ctx, 0, "go"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous record: %v", err)
	}

	for i := 0; i < RecentSearchLimit+2; i++ {
		env.now = env.now.Add(time.Second)
		if _, err := env.historySvc.Record(ctx, alice.ID, fmt.Sprintf(" term %d ", i)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recent, err := env.historySvc.Recent(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != RecentSearchLimit {
		t.Fatalf("recent = %d entries", len(recent))
	}
	if recent[0].SearchQuery != fmt.Sprintf("term %d", RecentSearchLimit+1) {
		t.Errorf("newest = %q", recent[0].SearchQuery)
	}

	anon, err := env.historySvc.Recent(ctx, 0)
	if err != nil || anon == nil || len(anon) != 0 {
		t.Errorf("anonymous recent = %v, %v", anon, err)
	}
}

func TestSearchHistoryTruncatesOnRuneBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")

	term := strings.Repeat("é", models.MaxSearchTermLength)
	recent, err := env.historySvc.Record(ctx, alice.ID, term)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	got := recent[0].SearchQuery
	if len(got) > models.MaxSearchTermLength || !utf8.ValidString(got) {
		t.Fatalf("stored %d bytes, valid=%v", len(got), utf8.ValidString(got))
	}
	if len(got) != models.MaxSearchTermLength-1 {
		t.Errorf("len = %d, want %d", len(got), models.MaxSearchTermLength-1)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"abcdef", 3, "abc"},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
