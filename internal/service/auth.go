package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"meridian/internal/auth"
	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
	"meridian/internal/domain/services"
)

// authService implements the AuthService interface
type authService struct {
	users  repositories.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, tokens *auth.TokenService, logger *slog.Logger) services.AuthService {
	return &authService{users: users, tokens: tokens, logger: logger}
}

// Register creates a new, initially-active user account
func (s *authService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return nil, fmt.Errorf("%w: email %v", domain.ErrValidation, err)
	}
	if err := validation.Validate(password, validation.Required, validation.Length(8, 128)); err != nil {
		return nil, fmt.Errorf("%w: password %v", domain.ErrValidation, err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		HashedSecret: hashed,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies credentials and mints a bearer token for an active user
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if !auth.VerifyPassword(user.HashedSecret, password) {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%w: user is inactive", domain.ErrValidation)
	}

	token, err := s.tokens.Mint(user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("mint token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return token, user, nil
}

// Me looks up the caller's user record by id
func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}
