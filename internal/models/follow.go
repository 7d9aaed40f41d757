package models

import "time"

// Follow represents an Instagram-style follow relationship
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"followerId" gorm:"index;uniqueIndex:idx_follower_following;not null"`
	FollowingID uint      `json:"followingId" gorm:"index;uniqueIndex:idx_follower_following;not null"`
	Follower    User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Following   User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"createdAt"`
}
