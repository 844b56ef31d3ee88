package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/adiwicaksana/filmtrack/internal/auth"
	"github.com/adiwicaksana/filmtrack/internal/models"
	"github.com/sirupsen/logrus"
)

// AuthController handles login, registration and logout against whichever
// backend is in use, and keeps the credential store in sync.
type AuthController struct {
	backend AuthBackend
	creds   auth.Store
	logger  *logrus.Logger
}

// NewAuthController creates a new auth controller.
func NewAuthController(backend AuthBackend, creds auth.Store, logger *logrus.Logger) *AuthController {
	return &AuthController{
		backend: backend,
		creds:   creds,
		logger:  logger,
	}
}

// Login validates and sanitizes the input, verifies it against the backend
// and persists the credentials for later sessions. Validation failures are
// reported before any network attempt.
func (a *AuthController) Login(ctx context.Context, user, pass string) (auth.Credentials, error) {
	creds, err := normalize(user, pass)
	if err != nil {
		return auth.Credentials{}, err
	}

	if err := a.backend.Login(ctx, creds); err != nil {
		return auth.Credentials{}, fmt.Errorf("login failed: %w", err)
	}

	if err := a.creds.Set(creds); err != nil {
		// The session is still usable, it just will not survive a restart.
		a.logger.WithError(err).Warn("Failed to persist credentials")
	}

	a.logger.WithField("user", creds.User).Info("Logged in")
	return creds, nil
}

// Register creates a new account. It does not log the user in; the original
// flow sends them back to the login form.
func (a *AuthController) Register(ctx context.Context, user, pass string) error {
	creds, err := normalize(user, pass)
	if err != nil {
		return err
	}

	if err := a.backend.Register(ctx, creds); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	a.logger.WithField("user", creds.User).Info("Account registered")
	return nil
}

// Logout clears the persisted credentials. The caller discards its session
// state (store, controller) alongside.
func (a *AuthController) Logout() error {
	return a.creds.Clear()
}

func normalize(user, pass string) (auth.Credentials, error) {
	pass = strings.TrimSpace(pass)
	clean := auth.SanitizeUsername(user)
	if clean == "" || pass == "" {
		return auth.Credentials{}, models.NewValidationError("username and password are required")
	}
	return auth.Credentials{User: clean, Pass: pass}, nil
}
