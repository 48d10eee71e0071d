package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/board-system/board-api/internal/core/ports"
)

func TestJWTProvider_IssueAndParse(t *testing.T) {
	p := NewJWTProvider(JWTConfig{Secret: "secret", RememberKey: "remember"})

	token, err := p.Issue(ports.TokenAccess, "a@x.com", "ADMIN", []string{"ROLE_ADMIN", "ACCESS1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := p.Parse(ports.TokenAccess, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "a@x.com" || claims.Role != "ADMIN" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be set")
	}
	if len(claims.Authorities) != 2 {
		t.Fatalf("expected 2 authorities, got %v", claims.Authorities)
	}
	if d := time.Until(claims.ExpiresAt); d < 23*time.Hour || d > 25*time.Hour {
		t.Fatalf("unexpected expiry: %v", claims.ExpiresAt)
	}
}

func TestJWTProvider_RejectsWrongKind(t *testing.T) {
	// same key for both kinds so only the typ claim differs
	p := NewJWTProvider(JWTConfig{Secret: "secret"})

	token, err := p.Issue(ports.TokenRemember, "a@x.com", "MEMBER", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := p.Parse(ports.TokenAccess, token); err == nil {
		t.Fatalf("expected remember-me token to be rejected as access token")
	}
}

func TestJWTProvider_RejectsOtherKey(t *testing.T) {
	p := NewJWTProvider(JWTConfig{Secret: "secret", RememberKey: "remember"})

	token, err := p.Issue(ports.TokenRemember, "a@x.com", "MEMBER", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := NewJWTProvider(JWTConfig{Secret: "secret", RememberKey: "other"})
	if _, err := other.Parse(ports.TokenRemember, token); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestJWTProvider_RejectsExpired(t *testing.T) {
	p := NewJWTProvider(JWTConfig{Secret: "secret", AccessTTL: time.Minute})
	p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := p.Issue(ports.TokenAccess, "a@x.com", "MEMBER", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	p.now = time.Now
	if _, err := p.Parse(ports.TokenAccess, token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestJWTProvider_RejectsNoneAlg(t *testing.T) {
	p := NewJWTProvider(JWTConfig{Secret: "secret"})

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "a@x.com",
		"typ": "access",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := p.Parse(ports.TokenAccess, token); err == nil {
		t.Fatalf("expected unsigned token to be rejected")
	}
}

func TestJWTProvider_DefaultTTLs(t *testing.T) {
	p := NewJWTProvider(JWTConfig{Secret: "secret"})
	if p.TTL(ports.TokenAccess) != 24*time.Hour {
		t.Fatalf("unexpected access ttl %v", p.TTL(ports.TokenAccess))
	}
	if p.TTL(ports.TokenRemember) != 30*24*time.Hour {
		t.Fatalf("unexpected remember ttl %v", p.TTL(ports.TokenRemember))
	}
}
