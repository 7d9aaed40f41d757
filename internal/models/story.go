package models

import "time"

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// Story is an ephemeral post. Expired rows stay in the table and are
// filtered out at read time.
type Story struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Caption   *string   `json:"caption"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index"`
}

// StoryGroup is one author's active stories, oldest first.
type StoryGroup struct {
	UserID  uint        `json:"userId"`
	User    UserSummary `json:"user"`
	Stories []Story     `json:"stories"`
}

// StoryDetail is a single story plus its author's full active list.
type StoryDetail struct {
	Story      StoryWithUser `json:"story"`
	AllStories []Story       `json:"allStories"`
}

type StoryWithUser struct {
	Story
	User UserSummary `json:"user"`
}

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	Caption string `json:"caption" validate:"max=500"`
	URL     string `json:"url" validate:"omitempty,max=2048"`
}
