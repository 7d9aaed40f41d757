package handlers

import (
	"net/http"

	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterAuthRoutes registers authentication-related routes. firebase-login
// is only mounted when a Firebase verifier is configured.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	if h.authService.FirebaseEnabled() {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
	g.GET("/me", h.Me, middleware.RequireAuth)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.CreateLocalUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Signup(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, res)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.SignIn(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// FirebaseLogin handles Firebase ID token verification and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// Me returns the authenticated user's account
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.Me(c.Request().Context(), middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}
