package models

import "time"

// User is the identity that owns all sequences, variables, global lists,
// and runs (§3).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	HashedSecret string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
