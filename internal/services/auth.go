package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService issues and verifies the HS256 bearer tokens that are the
// API's only session mechanism. Firebase is an optional identity provider
// whose ID tokens are exchanged for one of these.
type AuthService struct {
	users    repositories.UserRepository
	secret   []byte
	ttl      time.Duration
	firebase TokenVerifier
	now      Clock
}

// NewAuthService creates a new AuthService. firebase may be nil.
func NewAuthService(users repositories.UserRepository, secret string, ttl time.Duration, firebase TokenVerifier) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, firebase: firebase, now: SystemClock}
}

// FirebaseEnabled reports whether a Firebase verifier is configured.
func (s *AuthService) FirebaseEnabled() bool {
	return s.firebase != nil
}

// Signup creates a local account and signs it in.
func (s *AuthService) Signup(ctx context.Context, req models.CreateLocalUserRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		generated, err := s.GenerateUsername(ctx, req.Name, email)
		if err != nil {
			return nil, err
		}
		username = generated
	} else if !models.ValidUsername(username) {
		return nil, ErrInvalidUsername
	} else if taken, err := s.users.UsernameExists(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateAccount
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}
	return s.respond(user)
}

// SignIn checks a local email/password pair.
func (s *AuthService) SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.respond(user)
}

// FirebaseLogin verifies a Firebase ID token, links or creates the matching
// local account, and returns a session token for it.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	if s.firebase == nil {
		return nil, ErrFirebaseDisabled
	}
	token, err := s.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	uid := token.UID
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByFirebaseUID(ctx, uid)
	if err == nil {
		return s.respond(user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if email == "" {
		return nil, ErrInvalidToken
	}

	user, err = s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.UpdateUser(ctx, user.ID, map[string]interface{}{"firebase_uid": uid}); err != nil {
			return nil, err
		}
		user.FirebaseUID = &uid
		return s.respond(user)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	username, err := s.GenerateUsername(ctx, name, email)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = username
	}
	user = &models.User{
		Name:        name,
		Email:       email,
		Username:    username,
		FirebaseUID: &uid,
		Image:       picture,
		IsVerified:  token.Claims["email_verified"] == true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}
	return s.respond(user)
}

// Me returns the viewer's account.
func (s *AuthService) Me(ctx context.Context, viewerID uint) (*models.User, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetUserByID(ctx, viewerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	return user, err
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// IssueToken signs a session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

var usernameStrip = regexp.MustCompile(`[^a-z0-9_]+`)

// GenerateUsername derives base_suffix from name (or the email local part)
// and retries until the result is free.
func (s *AuthService) GenerateUsername(ctx context.Context, name, email string) (string, error) {
	base := usernameStrip.ReplaceAllString(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_")), "")
	if base == "" {
		local, _, _ := strings.Cut(email, "@")
		base = usernameStrip.ReplaceAllString(strings.ToLower(local), "")
	}
	if base == "" {
		base = "user"
	}
	if len(base) > 20 {
		base = base[:20]
	}

	for attempt := 0; attempt < 5; attempt++ {
		candidate := base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
		taken, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not generate a free username for %q", base)
}
