package models

import "time"

// Comment represents a comment on a post. ParentID points at a top-level
// comment of the same post; replies are one level deep.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	PostID    uint      `json:"postId" gorm:"index;not null"`
	ParentID  *uint     `json:"parentId" gorm:"index"`
	Content   string    `json:"content" gorm:"not null"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Post      Post      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Parent    *Comment  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentView is a comment with its author and, for top-level comments, its replies.
type CommentView struct {
	ID        uint          `json:"id"`
	UserID    uint          `json:"userId"`
	PostID    uint          `json:"postId"`
	Content   string        `json:"content"`
	ParentID  *uint         `json:"parentId"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	User      UserSummary   `json:"user"`
	Replies   []CommentView `json:"replies"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"max=2000"`
	ParentID *uint  `json:"parentId"`
}
