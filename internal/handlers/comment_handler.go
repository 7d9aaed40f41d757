package handlers

import (
	"net/http"

	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.POST("/posts/:id/comments", h.CreateComment, middleware.RequireAuth)
	g.DELETE("/comments/:id", h.DeleteComment, middleware.RequireAuth)
}

// CreateComment adds a comment or reply to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.CreateComment(c.Request().Context(), middleware.ViewerID(c), postID, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, comment)
}

// GetCommentsByPostID returns a post's comment tree
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comments, err := h.commentService.ListComments(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, comments)
}

// DeleteComment deletes one of the viewer's comments and its replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.commentService.DeleteComment(c.Request().Context(), middleware.ViewerID(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"deleted": true})
}
