package models

import "time"

// MaxSearchTermLength bounds a stored search term.
const MaxSearchTermLength = 255

// SearchHistory is an append-only log of a user's search terms.
type SearchHistory struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID      uint      `json:"-" gorm:"index;not null" bson:"user_id"`
	User        User      `json:"-" gorm:"constraint:OnDelete:CASCADE" bson:"-"`
	SearchQuery string    `json:"term" gorm:"size:255;not null" bson:"search_query"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index" bson:"created_at"`
}

type CreateSearchHistoryRequest struct {
	Term string `json:"term"`
}
