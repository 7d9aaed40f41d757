package handlers

import (
	"net/http"

	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService       *services.PostService
	engagementService *services.EngagementService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService, engagementService *services.EngagementService) *PostHandler {
	return &PostHandler{postService: postService, engagementService: engagementService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost, middleware.RequireAuth)
	g.GET("/posts/feed", h.GetFeed)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost, middleware.RequireAuth)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.Request().Context(), middleware.ViewerID(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, post)
}

// GetFeed returns the viewer's home feed
func (h *PostHandler) GetFeed(c echo.Context) error {
	posts, err := h.engagementService.Feed(c.Request().Context(), middleware.ViewerID(c), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, posts)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.engagementService.Post(c.Request().Context(), middleware.ViewerID(c), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, post)
}

// DeletePost deletes one of the viewer's posts
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.postService.DeletePost(c.Request().Context(), middleware.ViewerID(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"deleted": true})
}
