package handlers

import (
	"net/http"

	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler handles saving and unsaving posts
type BookmarkHandler struct {
	interactions *services.InteractionService
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(interactions *services.InteractionService) *BookmarkHandler {
	return &BookmarkHandler{interactions: interactions}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/posts/:id/bookmark", h.SavePost, middleware.RequireAuth)
	g.DELETE("/posts/:id/bookmark", h.UnsavePost, middleware.RequireAuth)
}

// SavePost bookmarks a post for the viewer
func (h *BookmarkHandler) SavePost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	bookmark, err := h.interactions.Bookmark(c.Request().Context(), middleware.ViewerID(c), postID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, bookmark)
}

// UnsavePost removes the viewer's bookmark, if any
func (h *BookmarkHandler) UnsavePost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	removed, err := h.interactions.Unbookmark(c.Request().Context(), middleware.ViewerID(c), postID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"success": true, "removed": removed})
}
