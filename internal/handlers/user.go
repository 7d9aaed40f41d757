package handlers

import (
	"net/http"

	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile and follow-graph requests
type UserHandler struct {
	userService       *services.UserService
	engagementService *services.EngagementService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, engagementService *services.EngagementService) *UserHandler {
	return &UserHandler{userService: userService, engagementService: engagementService}
}

// RegisterProfileRoutes registers user profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/suggestions", h.GetSuggestions)
	g.GET("/users/:username", h.GetProfile)
	g.PATCH("/users/:username", h.UpdateProfile, middleware.RequireAuth)
	g.GET("/users/:username/posts", h.GetUserPosts)
	g.GET("/users/:username/followers", h.GetFollowers)
	g.GET("/users/:username/following", h.GetFollowing)
}

// GetProfile returns a user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.userService.Profile(c.Request().Context(), middleware.ViewerID(c), c.Param("username"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}

// UpdateProfile updates the viewer's own profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.userService.UpdateProfile(c.Request().Context(), middleware.ViewerID(c), c.Param("username"), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}

// GetUserPosts returns one profile tab: posts, reels, liked or saved
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	posts, err := h.engagementService.ProfilePosts(c.Request().Context(), middleware.ViewerID(c), c.Param("username"), c.QueryParam("type"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, posts)
}

// GetFollowers lists a user's followers
func (h *UserHandler) GetFollowers(c echo.Context) error {
	users, err := h.userService.Followers(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users)
}

// GetFollowing lists the accounts a user follows
func (h *UserHandler) GetFollowing(c echo.Context) error {
	users, err := h.userService.Following(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users)
}

// GetSuggestions returns accounts the viewer may want to follow
func (h *UserHandler) GetSuggestions(c echo.Context) error {
	users, err := h.userService.Suggestions(c.Request().Context(), middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users)
}
