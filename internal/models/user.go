package models

import (
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// ValidUsername reports whether s can be used as a handle and addressed
// through /api/users/{username}.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:64;uniqueIndex;not null"`
	Name        string    `json:"name"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"` // Ensure email is unique across all users
	Password    string    `json:"-"`                                  // bcrypt hash, local accounts only
	FirebaseUID *string   `json:"-" gorm:"uniqueIndex"`               // Link to Firebase User UID
	Bio         string    `json:"bio"`
	Image       string    `json:"image"`
	CoverImage  string    `json:"coverImage"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserSummary is the author block embedded in posts, comments and stories.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Summary returns the public author block for u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Name: u.Name, ImageURL: u.Image}
}

// SuggestedUser is a user card on the explore page.
type SuggestedUser struct {
	UserSummary
	Bio string `json:"bio"`
}

// Profile is a user with follow-graph metadata relative to the viewer.
type Profile struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Bio           string    `json:"bio"`
	ImageURL      string    `json:"imageUrl"`
	CoverImageURL string    `json:"coverImageUrl"`
	IsVerified    bool      `json:"isVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	PostsCount    int64     `json:"postsCount"`
	Followers     int64     `json:"followers"`
	Following     int64     `json:"following"`
	IsFollowing   bool      `json:"isFollowing"`
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"omitempty,username"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateProfileRequest carries a partial profile update. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=50"`
	Username   *string `json:"username" validate:"omitempty,username"`
	Bio        *string `json:"bio" validate:"omitempty,max=500"`
	Image      *string `json:"image"`
	CoverImage *string `json:"coverImage"`
}

// AuthResponse is returned by every sign-in flow.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
