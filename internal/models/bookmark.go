package models

import "time"

// Bookmark represents a saved post by a user
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;uniqueIndex:idx_user_post_save;not null"`
	PostID    uint      `json:"postId" gorm:"index;uniqueIndex:idx_user_post_save;not null"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Post      Post      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}
