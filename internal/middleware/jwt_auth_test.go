package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/labstack/echo/v4"
)

type stubParser struct{}

func (stubParser) ParseToken(token string) (*models.JwtCustomClaims, error) {
	if token == "good" {
		return &models.JwtCustomClaims{UserID: 7, Username: "alice"}, nil
	}
	return nil, errors.New("bad token")
}

func run(t *testing.T, header string, h echo.HandlerFunc, mws ...echo.MiddlewareFunc) (int, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	err := h(c)
	return rec.Code, err
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

func TestJWTAuthMiddleware(t *testing.T) {
	var seen uint
	handler := func(c echo.Context) error {
		seen = ViewerID(c)
		return c.NoContent(http.StatusNoContent)
	}
	mw := JWTAuthMiddleware(stubParser{})

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantViewer uint
	}{
		{"anonymous", "", 0, 0},
		{"valid bearer", "Bearer good", 0, 7},
		{"lowercase scheme", "bearer good", 0, 7},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, 0},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, 0},
		{"missing token", "Bearer", http.StatusUnauthorized, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = 0
			_, err := run(t, tc.header, handler, mw)
			if got := statusOf(err); got != tc.wantStatus {
				t.Fatalf("status = %d, want %d (err %v)", got, tc.wantStatus, err)
			}
			if seen != tc.wantViewer {
				t.Errorf("viewer = %d, want %d", seen, tc.wantViewer)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	mw := JWTAuthMiddleware(stubParser{})

	if _, err := run(t, "", ok, mw, RequireAuth); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("anonymous: %v", err)
	}
	code, err := run(t, "Bearer good", ok, mw, RequireAuth)
	if err != nil || code != http.StatusNoContent {
		t.Fatalf("authenticated: code %d, err %v", code, err)
	}
}
