package handlers

import (
	"net/http"

	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the explore page and the reels stream
type FeedHandler struct {
	engagementService *services.EngagementService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(engagementService *services.EngagementService) *FeedHandler {
	return &FeedHandler{engagementService: engagementService}
}

// RegisterFeedRoutes registers explore and reels routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/explore", h.GetExplore)
	g.GET("/reels", h.GetReels)
	g.GET("/reels/recommendations", h.GetRecommendations)
	g.GET("/reels/:id", h.GetReel)
}

// GetExplore returns trending posts and suggested accounts
func (h *FeedHandler) GetExplore(c echo.Context) error {
	res, err := h.engagementService.Explore(c.Request().Context(), middleware.ViewerID(c), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// GetReels lists video posts
func (h *FeedHandler) GetReels(c echo.Context) error {
	reels, err := h.engagementService.Reels(c.Request().Context(), middleware.ViewerID(c), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, reels)
}

// GetReel returns a single video post
func (h *FeedHandler) GetReel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	reel, err := h.engagementService.Reel(c.Request().Context(), middleware.ViewerID(c), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, reel)
}

// GetRecommendations returns the next page of reels, wrapping around once
// every video has been seen
func (h *FeedHandler) GetRecommendations(c echo.Context) error {
	exclude, err := parseIDList(c.QueryParam("excludeIds"), services.MaxExcludeIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid excludeIds")
	}

	reels, err := h.engagementService.Recommendations(c.Request().Context(), middleware.ViewerID(c), queryInt(c, "limit"), exclude)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, reels)
}
