package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

const claimsKey = "user"

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	ParseToken(token string) (*models.JwtCustomClaims, error)
}

// JWTAuthMiddleware resolves the viewer from an optional bearer token.
// No Authorization header means an anonymous viewer; a malformed or
// invalid token is rejected with 401.
func JWTAuthMiddleware(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			// Expecting "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := parser.ParseToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			// Store user claims in context
			c.Set(claimsKey, claims)

			req := c.Request()
			ctx := req.Context()
			l := logger.Ctx(ctx).With().Uint(logger.FieldViewerID, claims.UserID).Logger()
			c.SetRequest(req.WithContext(logger.WithLogger(ctx, l)))

			return next(c)
		}
	}
}

// RequireAuth rejects anonymous viewers with 401.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ViewerID(c) == 0 {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		return next(c)
	}
}

// ViewerID returns the authenticated user id, or 0 for an anonymous viewer.
func ViewerID(c echo.Context) uint {
	claims, ok := c.Get(claimsKey).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}
