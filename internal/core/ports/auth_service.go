package ports

import (
	"context"
	"time"

	"github.com/board-system/board-api/internal/core/domain"
)

// SignInResult is returned after a successful credential check.
type SignInResult struct {
	AccessToken string
	// RememberMeToken is empty unless remember-me was requested.
	RememberMeToken string
	RememberMeTTL   time.Duration
	User            UserResponse
}

// AuthService verifies credentials and tokens.
type AuthService interface {
	SignIn(ctx context.Context, email, password string, rememberMe bool) (*SignInResult, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.Principal, error)
	// AuthenticateRememberMe validates a remember-me token and returns the
	// principal together with a freshly issued access token.
	AuthenticateRememberMe(ctx context.Context, rememberToken string) (*domain.Principal, string, error)
	Logout(ctx context.Context, accessToken, rememberToken string) error
}
