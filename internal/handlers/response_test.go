package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{services.ErrPostNotFound, http.StatusNotFound, "Post not found"},
		{fmt.Errorf("wrapped: %w", services.ErrAlreadyLiked), http.StatusBadRequest, "Post already liked"},
		{services.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{services.ErrDuplicateAccount, http.StatusConflict, "Username or email already exists"},
		{echo.NewHTTPError(http.StatusBadRequest, "Invalid id"), http.StatusBadRequest, "Invalid id"},
		{errors.New("connection reset by peer"), http.StatusInternalServerError, "Internal server error"},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(tc.err, c)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body: %v", err)
			}
			if body["error"] != tc.message {
				t.Errorf("error = %q, want %q", body["error"], tc.message)
			}
		})
	}
}

func TestErrorHandlerSkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.NoContent(http.StatusNoContent)

	ErrorHandler(services.ErrPostNotFound, c)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("committed response was overwritten: %d %q", rec.Code, rec.Body.String())
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList(" 3, ,7,", 10)
	if err != nil {
		t.Fatalf("parseIDList: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 7 {
		t.Errorf("ids = %v", ids)
	}
	if ids, _ := parseIDList("", 10); len(ids) != 0 {
		t.Errorf("empty list = %v", ids)
	}
	if _, err := parseIDList("1,x", 10); err == nil {
		t.Error("expected error for non-numeric id")
	}
	if ids, err := parseIDList("1,2,3", 3); err != nil || len(ids) != 3 {
		t.Errorf("list at the cap = %v, %v", ids, err)
	}
	if _, err := parseIDList("1,2,3,4", 3); err == nil {
		t.Error("expected error for a list over the cap")
	}
}
