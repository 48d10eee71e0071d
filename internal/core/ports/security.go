package ports

import (
	"context"
	"time"
)

// PasswordEncoder hashes and verifies passwords.
type PasswordEncoder interface {
	Encode(raw string) (string, error)
	Matches(raw, hash string) bool
}

// TokenKind separates short-lived access tokens from remember-me tokens.
type TokenKind string

const (
	TokenAccess   TokenKind = "access"
	TokenRemember TokenKind = "remember"
)

// TokenClaims is the verified content of a signed token.
type TokenClaims struct {
	ID          string
	Subject     string
	Kind        TokenKind
	Role        string
	Authorities []string
	ExpiresAt   time.Time
}

// TokenProvider issues and verifies signed tokens.
type TokenProvider interface {
	Issue(kind TokenKind, subject, role string, authorities []string) (string, error)
	Parse(kind TokenKind, token string) (*TokenClaims, error)
	TTL(kind TokenKind) time.Duration
}

// TokenDenylist remembers revoked token IDs until they would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
