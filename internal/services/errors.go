package services

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrReelNotFound    = errors.New("reel not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrStoryNotFound   = errors.New("story not found or expired")

	ErrAlreadyLiked      = errors.New("post already liked")
	ErrAlreadyBookmarked = errors.New("post already bookmarked")
	ErrAlreadyFollowing  = errors.New("already following")
	ErrSelfFollow        = errors.New("cannot follow yourself")

	ErrInvalidPostType   = errors.New("invalid post type")
	ErrEmptyPost         = errors.New("post must have either content or an image/video")
	ErrEmptyComment      = errors.New("comment content is required")
	ErrInvalidParent     = errors.New("invalid parent comment")
	ErrEmptyStory        = errors.New("story must have either caption or url")
	ErrInvalidSearchTerm = errors.New("invalid term")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrInvalidUsername   = errors.New("invalid username")

	ErrDuplicateAccount   = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrFirebaseDisabled   = errors.New("firebase login is not configured")
)
