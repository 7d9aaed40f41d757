package models

import "time"

// Like represents a like on a post
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;uniqueIndex:idx_user_post_like;not null"`
	PostID    uint      `json:"postId" gorm:"index;uniqueIndex:idx_user_post_like;not null"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Post      Post      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}
