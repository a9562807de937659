package models

import "time"

// Session is one authenticated login. The bearer token handed to the client
// is a JWT that embeds this row's ID; a token only authenticates while the
// row is active and unexpired, so revocation is immediate.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	IsActive     bool      `json:"is_active"`
}
