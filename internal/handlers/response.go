package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/loop/backend/internal/services"
	"github.com/anonto42/loop/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

var errorResponses = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{services.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
	{services.ErrForbidden, http.StatusForbidden, "Forbidden"},

	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrPostNotFound, http.StatusNotFound, "Post not found"},
	{services.ErrReelNotFound, http.StatusNotFound, "Reel not found"},
	{services.ErrCommentNotFound, http.StatusNotFound, "Comment not found"},
	{services.ErrStoryNotFound, http.StatusNotFound, "Story not found or expired"},

	{services.ErrAlreadyLiked, http.StatusBadRequest, "Post already liked"},
	{services.ErrAlreadyBookmarked, http.StatusBadRequest, "Post already bookmarked"},
	{services.ErrAlreadyFollowing, http.StatusBadRequest, "Already following this user"},
	{services.ErrSelfFollow, http.StatusBadRequest, "You cannot follow yourself"},

	{services.ErrInvalidPostType, http.StatusBadRequest, "Invalid post type"},
	{services.ErrEmptyPost, http.StatusBadRequest, "Post must have either content or an image/video"},
	{services.ErrEmptyComment, http.StatusBadRequest, "Comment content is required"},
	{services.ErrInvalidParent, http.StatusBadRequest, "Invalid parent comment"},
	{services.ErrEmptyStory, http.StatusBadRequest, "Story must have either caption or url"},
	{services.ErrInvalidSearchTerm, http.StatusBadRequest, "Invalid term"},
	{services.ErrNoFieldsToUpdate, http.StatusBadRequest, "No fields to update"},
	{services.ErrInvalidUsername, http.StatusBadRequest, "Username must be 3-30 lowercase letters, digits or underscores"},

	{services.ErrDuplicateAccount, http.StatusConflict, "Username or email already exists"},
	{services.ErrFirebaseDisabled, http.StatusServiceUnavailable, "Firebase login is not configured"},
}

// toHTTPError maps service errors onto status codes. Unknown errors become 500.
func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	for _, e := range errorResponses {
		if errors.Is(err, e.err) {
			return echo.NewHTTPError(e.status, e.message)
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

// ErrorHandler renders every error as {"error": message}. 5xx causes are
// logged and never sent to the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := toHTTPError(err)
	msg := fmt.Sprint(he.Message)
	if he.Code >= http.StatusInternalServerError {
		l := logger.Ctx(c.Request().Context())
		l.Error().Err(err).Str(logger.FieldPath, c.Path()).Msg("request failed")
		msg = "Internal server error"
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, echo.Map{"error": msg})
	}
	if err != nil {
		l := logger.Ctx(c.Request().Context())
		l.Error().Err(err).Msg("failed to write error response")
	}
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"data": data})
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// parseIDList parses a comma-separated id list, skipping blanks. Lists
// longer than limit are rejected.
func parseIDList(raw string, limit int) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if len(ids) == limit {
			return nil, fmt.Errorf("more than %d ids", limit)
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}
