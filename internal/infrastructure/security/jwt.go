package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/board-system/board-api/internal/core/ports"
)

const (
	defaultAccessTTL   = 24 * time.Hour
	defaultRememberTTL = 30 * 24 * time.Hour
)

var errWrongKind = errors.New("token kind mismatch")

// JWTConfig holds the signing keys and lifetimes for both token kinds.
type JWTConfig struct {
	Secret      string
	RememberKey string
	AccessTTL   time.Duration
	RememberTTL time.Duration
}

// JWTProvider signs and verifies HS256 tokens.
type JWTProvider struct {
	secret      []byte
	rememberKey []byte
	accessTTL   time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

type tokenClaims struct {
	Kind        ports.TokenKind `json:"typ"`
	Role        string          `json:"role,omitempty"`
	Authorities []string        `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

func NewJWTProvider(cfg JWTConfig) *JWTProvider {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = defaultRememberTTL
	}
	if cfg.RememberKey == "" {
		cfg.RememberKey = cfg.Secret
	}
	return &JWTProvider{
		secret:      []byte(cfg.Secret),
		rememberKey: []byte(cfg.RememberKey),
		accessTTL:   cfg.AccessTTL,
		rememberTTL: cfg.RememberTTL,
		now:         time.Now,
	}
}

func (p *JWTProvider) TTL(kind ports.TokenKind) time.Duration {
	if kind == ports.TokenRemember {
		return p.rememberTTL
	}
	return p.accessTTL
}

func (p *JWTProvider) key(kind ports.TokenKind) []byte {
	if kind == ports.TokenRemember {
		return p.rememberKey
	}
	return p.secret
}

// Issue signs a new token of kind for subject.
func (p *JWTProvider) Issue(kind ports.TokenKind, subject, role string, authorities []string) (string, error) {
	now := p.now()
	claims := tokenClaims{
		Kind:        kind,
		Role:        role,
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.TTL(kind))),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(p.key(kind))
}

// Parse verifies signature, expiry and kind.
func (p *JWTProvider) Parse(kind ports.TokenKind, token string) (*ports.TokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return p.key(kind), nil
	}, jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Kind != kind {
		return nil, errWrongKind
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return &ports.TokenClaims{
		ID:          claims.ID,
		Subject:     claims.Subject,
		Kind:        claims.Kind,
		Role:        claims.Role,
		Authorities: claims.Authorities,
		ExpiresAt:   exp,
	}, nil
}
