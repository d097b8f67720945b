package models

import "github.com/golang-jwt/jwt/v5"

// Claims are the self-issued token claims minted and verified by
// internal/auth (§6: "claims {sub: user email, exp: unix seconds}").
type Claims struct {
	jwt.RegisteredClaims
}
