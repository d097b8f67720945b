package repositories

import (
	"context"

	"meridian/internal/domain/models"
)

// UserRepository persists User records. Lookups by email back login,
// seeding and token verification (the token subject is the email);
// lookups by id back Me.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
