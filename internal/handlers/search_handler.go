package handlers

import (
	"net/http"

	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SearchHandler serves text search and the viewer's search history
type SearchHandler struct {
	engagementService *services.EngagementService
	historyService    *services.SearchHistoryService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(engagementService *services.EngagementService, historyService *services.SearchHistoryService) *SearchHandler {
	return &SearchHandler{engagementService: engagementService, historyService: historyService}
}

// RegisterSearchRoutes registers search routes
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/search/history", h.GetHistory)
	g.POST("/search/history", h.AddHistory, middleware.RequireAuth)
}

// Search matches users and posts against q
func (h *SearchHandler) Search(c echo.Context) error {
	scope := c.QueryParam("type")
	switch scope {
	case "", services.SearchAll, services.SearchUsers, services.SearchPosts:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid search type")
	}

	res, err := h.engagementService.Search(c.Request().Context(), middleware.ViewerID(c), c.QueryParam("q"), scope)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// GetHistory returns the viewer's recent searches; anonymous viewers get []
func (h *SearchHandler) GetHistory(c echo.Context) error {
	entries, err := h.historyService.Recent(c.Request().Context(), middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, entries)
}

// AddHistory records a search term
func (h *SearchHandler) AddHistory(c echo.Context) error {
	var req models.CreateSearchHistoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid term")
	}

	entries, err := h.historyService.Record(c.Request().Context(), middleware.ViewerID(c), req.Term)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, entries)
}
