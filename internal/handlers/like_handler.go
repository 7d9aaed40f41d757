package handlers

import (
	"net/http"

	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	interactions *services.InteractionService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(interactions *services.InteractionService) *LikeHandler {
	return &LikeHandler{interactions: interactions}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.LikePost, middleware.RequireAuth)
	g.DELETE("/posts/:id/like", h.UnlikePost, middleware.RequireAuth)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	like, err := h.interactions.Like(c.Request().Context(), middleware.ViewerID(c), postID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, like)
}

// UnlikePost handles unliking a post. Unliking a post that was not liked succeeds.
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	removed, err := h.interactions.Unlike(c.Request().Context(), middleware.ViewerID(c), postID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"success": true, "removed": removed})
}
