package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"meridian/internal/domain"
	"meridian/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier verifies tokens issued by an external OIDC-compatible
// identity provider instead of minting its own (opt-in via JWKS_URL,
// documented Open Question resolution in SPEC_FULL.md). Grounded on
// the teacher's SupabaseJWTVerifier, generalized away from
// Supabase-specific claim checks (role=="authenticated") since this
// domain has no fixed external issuer.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from the
// given JWKS endpoint. Keys are cached and refreshed per HTTP cache
// headers by the keyfunc library.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("create JWKS client: %w", err)
	}

	logger.Info("JWKS verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{jwks: jwks, logger: logger}, nil
}

// VerifyToken validates a JWT against the fetched JWKS, restricting
// the algorithm allowlist to asymmetric signatures (RS256/ES256) to
// prevent algorithm-confusion attacks against the HS256 path.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	switch token.Method.Alg() {
	case "RS256", "ES256":
	default:
		v.logger.Warn("token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases resources held by the verifier. keyfunc v3 manages
// its own lifecycle off HTTP cache headers, so this is a no-op.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("JWKS verifier closed")
	return nil
}
