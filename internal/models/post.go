package models

import (
	"strings"
	"time"
)

// PostType is the stored media kind of a post. VIDEO posts are shown as reels.
type PostType string

const (
	PostTypeText  PostType = "TEXT"
	PostTypeImage PostType = "IMAGE"
	PostTypeVideo PostType = "VIDEO"
)

// ParsePostType maps the request vocabulary (text, image, reel) onto PostType.
func ParsePostType(s string) (PostType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return PostTypeText, true
	case "image":
		return PostTypeImage, true
	case "reel":
		return PostTypeVideo, true
	}
	return "", false
}

// Post represents a social media post
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Content   string    `json:"content"`
	URL       string    `json:"url"`
	Type      PostType  `json:"type" gorm:"size:10;index;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// PostView is a post annotated with live counts and viewer-relative flags.
type PostView struct {
	ID            uint         `json:"id"`
	UserID        uint         `json:"userId"`
	Content       string       `json:"content"`
	ImageURL      string       `json:"imageUrl"`
	Type          PostType     `json:"type"`
	LikesCount    int64        `json:"likesCount"`
	CommentsCount int64        `json:"commentsCount"`
	CreatedAt     time.Time    `json:"createdAt"`
	IsLiked       bool         `json:"isLiked"`
	IsSaved       bool         `json:"isSaved"`
	User          *UserSummary `json:"user,omitempty"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"max=2200"`
	URL     string `json:"url" validate:"omitempty,max=2048"`
	Type    string `json:"type" validate:"required"`
}

// ExploreResult is the explore page payload.
type ExploreResult struct {
	Posts          []PostView      `json:"posts"`
	SuggestedUsers []SuggestedUser `json:"suggestedUsers"`
}

// SearchResult is the search payload; both lists are always present.
type SearchResult struct {
	Users []UserSummary `json:"users"`
	Posts []PostView    `json:"posts"`
}
