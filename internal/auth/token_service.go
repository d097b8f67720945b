package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"meridian/internal/domain"
	"meridian/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService mints and verifies self-issued bearer tokens (§6:
// "claims {sub: user email, exp: unix seconds}"). There is no external
// identity provider in this domain, so HS256 with a server-held secret
// replaces the teacher's Supabase-JWKS verification path; see
// jwks_verifier.go for the opt-in external-issuer alternative.
type TokenService struct {
	secretKey []byte
	algorithm string
	ttl       time.Duration
	logger    *slog.Logger
}

// NewTokenService builds a TokenService. algorithm currently supports
// only HS256; other values are rejected at construction so a
// misconfigured ALGORITHM env var fails fast at startup.
func NewTokenService(secretKey, algorithm string, ttlMinutes int, logger *slog.Logger) (*TokenService, error) {
	if secretKey == "" {
		return nil, errors.New("secret key cannot be empty")
	}
	if algorithm != "HS256" {
		return nil, fmt.Errorf("unsupported algorithm %q: only HS256 is implemented", algorithm)
	}
	return &TokenService{
		secretKey: []byte(secretKey),
		algorithm: algorithm,
		ttl:       time.Duration(ttlMinutes) * time.Minute,
		logger:    logger,
	}, nil
}

// Mint issues a signed token for subject (the user's email), expiring
// after the configured TTL.
func (s *TokenService) Mint(subject string) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates signature, algorithm, and expiry, returning
// the parsed claims.
func (s *TokenService) VerifyToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Close is a no-op; TokenService holds no external resources.
func (s *TokenService) Close() error {
	return nil
}
