package handlers

import (
	"net/http"

	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles HTTP requests related to stories
type StoryHandler struct {
	storyService *services.StoryService
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyService *services.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.GetStories)
	g.POST("/stories", h.CreateStory, middleware.RequireAuth)
	g.GET("/stories/:id", h.GetStory)
	g.DELETE("/stories/:id", h.DeleteStory, middleware.RequireAuth)
}

// GetStories returns active story rings for the viewer
func (h *StoryHandler) GetStories(c echo.Context) error {
	groups, err := h.storyService.ActiveStories(c.Request().Context(), middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, groups)
}

// GetStory returns a single active story and its author's other active stories
func (h *StoryHandler) GetStory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.storyService.StoryDetail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, detail)
}

// CreateStory publishes a story for 24 hours
func (h *StoryHandler) CreateStory(c echo.Context) error {
	var req models.CreateStoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	story, err := h.storyService.CreateStory(c.Request().Context(), middleware.ViewerID(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, story)
}

// DeleteStory deletes one of the viewer's stories
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.storyService.DeleteStory(c.Request().Context(), middleware.ViewerID(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"deleted": true})
}
