package services

import (
	"context"

	"meridian/internal/domain/models"
)

// AuthService handles registration, login and session identity (§6,
// SPEC_FULL.md supplemented features).
type AuthService interface {
	// Register creates a new, initially-active user account.
	Register(ctx context.Context, email, password string) (*models.User, error)

	// Login verifies credentials and mints a bearer token for an active user.
	Login(ctx context.Context, email, password string) (token string, user *models.User, err error)

	// Me looks up the caller's user record by id (the value the auth
	// middleware already resolved and injected into the request context).
	Me(ctx context.Context, userID string) (*models.User, error)
}
