package handlers

import (
	"net/http"

	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	interactions *services.InteractionService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(interactions *services.InteractionService) *FollowHandler {
	return &FollowHandler{interactions: interactions}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:username/follow", h.FollowUser, middleware.RequireAuth)
	g.DELETE("/users/:username/follow", h.UnfollowUser, middleware.RequireAuth)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	if err := h.interactions.Follow(c.Request().Context(), middleware.ViewerID(c), c.Param("username")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"success": true, "following": true})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	removed, err := h.interactions.Unfollow(c.Request().Context(), middleware.ViewerID(c), c.Param("username"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"success": true, "following": false, "removed": removed})
}
