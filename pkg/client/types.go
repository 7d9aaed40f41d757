package client

import (
	"strings"
	"time"
)

type Author struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type Post struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"userId"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"imageUrl"`
	Type          string    `json:"type"`
	LikesCount    int64     `json:"likesCount"`
	CommentsCount int64     `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	IsLiked       bool      `json:"isLiked"`
	IsSaved       bool      `json:"isSaved"`
	User          *Author   `json:"user,omitempty"`
}

type Explore struct {
	Posts          []Post   `json:"posts"`
	SuggestedUsers []Author `json:"suggestedUsers"`
}

type Comment struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	PostID    uint      `json:"postId"`
	Content   string    `json:"content"`
	ParentID  *uint     `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	User      Author    `json:"user"`
	Replies   []Comment `json:"replies"`
}

type Profile struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	ImageURL    string `json:"imageUrl"`
	PostsCount  int64  `json:"postsCount"`
	Followers   int64  `json:"followers"`
	Following   int64  `json:"following"`
	IsFollowing bool   `json:"isFollowing"`
}

type HistoryEntry struct {
	ID        string    `json:"id"`
	Term      string    `json:"term"`
	CreatedAt time.Time `json:"createdAt"`
}

// DedupeHistory keeps the first occurrence of each term compared
// case-insensitively. Input is expected newest first, so the newest wins.
func DedupeHistory(entries []HistoryEntry) []HistoryEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Term))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
