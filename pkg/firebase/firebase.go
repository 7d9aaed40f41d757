package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/anonto42/loop/backend/pkg/logger"
)

// ErrDisabled is returned when no credentials path is configured.
var ErrDisabled = errors.New("firebase is not configured")

// App holds the Firebase app and the auth client used to verify ID tokens
// at firebase-login.
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase loads a service-account file and builds the auth client.
// An empty path yields ErrDisabled.
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, ErrDisabled
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials at %s: %w", credentialsPath, err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	l := logger.L()
	l.Info().Str("credentials", credentialsPath).Msg("firebase auth client ready")
	return &App{FirebaseApp: app, AuthClient: authClient}, nil
}
