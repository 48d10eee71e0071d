package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

// PrincipalLoader resolves an email to an authentication principal.
type PrincipalLoader interface {
	LoadByEmail(ctx context.Context, email string) (*domain.Principal, error)
}

// AuthService implements sign-in, token verification and logout.
type AuthService struct {
	principals PrincipalLoader
	encoder    ports.PasswordEncoder
	tokens     ports.TokenProvider
	denylist   ports.TokenDenylist
	logger     zerolog.Logger
	// dummyHash is compared against on unknown emails.
	dummyHash string
}

func NewAuthService(
	principals PrincipalLoader,
	encoder ports.PasswordEncoder,
	tokens ports.TokenProvider,
	denylist ports.TokenDenylist,
	logger zerolog.Logger,
) *AuthService {
	dummy, err := encoder.Encode("unknown-account")
	if err != nil {
		logger.Warn().Err(err).Msg("dummy password hash unavailable")
	}
	return &AuthService{
		principals: principals,
		encoder:    encoder,
		tokens:     tokens,
		denylist:   denylist,
		logger:     logger,
		dummyHash:  dummy,
	}
}

// SignIn checks the credentials and issues an access token, plus a remember-me
// token when rememberMe is set. Unknown emails and wrong passwords both yield
// domain.ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string, rememberMe bool) (*ports.SignInResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	principal, err := s.principals.LoadByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// unknown accounts pay the same bcrypt cost as known ones
			s.encoder.Matches(password, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.encoder.Matches(password, principal.PasswordHash) || principal.State != domain.StateRegistered {
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ports.TokenAccess, principal.Email, string(principal.Role), principal.Authorities)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	result := &ports.SignInResult{
		AccessToken: access,
		User: ports.UserResponse{
			ID:          principal.UserID,
			Email:       principal.Email,
			Nickname:    principal.Nickname,
			Role:        string(principal.Role),
			Permissions: principal.Permissions(),
			State:       string(principal.State),
			CreatedAt:   principal.CreatedAt,
		},
	}

	if rememberMe {
		remember, err := s.tokens.Issue(ports.TokenRemember, principal.Email, string(principal.Role), nil)
		if err != nil {
			return nil, fmt.Errorf("issue remember-me token: %w", err)
		}
		result.RememberMeToken = remember
		result.RememberMeTTL = s.tokens.TTL(ports.TokenRemember)
	}

	s.logger.Info().Str("user_id", principal.UserID).Bool("remember_me", rememberMe).Msg("signed in")
	return result, nil
}

// Authenticate verifies an access token and reloads its principal.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Principal, error) {
	return s.verify(ctx, ports.TokenAccess, accessToken)
}

// AuthenticateRememberMe verifies a remember-me token and issues a new access token.
func (s *AuthService) AuthenticateRememberMe(ctx context.Context, rememberToken string) (*domain.Principal, string, error) {
	principal, err := s.verify(ctx, ports.TokenRemember, rememberToken)
	if err != nil {
		return nil, "", err
	}
	access, err := s.tokens.Issue(ports.TokenAccess, principal.Email, string(principal.Role), principal.Authorities)
	if err != nil {
		return nil, "", fmt.Errorf("issue access token: %w", err)
	}
	return principal, access, nil
}

func (s *AuthService) verify(ctx context.Context, kind ports.TokenKind, token string) (*domain.Principal, error) {
	claims, err := s.tokens.Parse(kind, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check denylist: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
		}
	}

	principal, err := s.principals.LoadByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if principal.State != domain.StateRegistered {
		return nil, fmt.Errorf("%w: account is not active", domain.ErrUnauthorized)
	}
	return principal, nil
}

// Logout revokes the given tokens. Tokens that fail to parse are ignored.
func (s *AuthService) Logout(ctx context.Context, accessToken, rememberToken string) error {
	if s.denylist == nil {
		return nil
	}

	pairs := []struct {
		kind  ports.TokenKind
		token string
	}{
		{ports.TokenAccess, accessToken},
		{ports.TokenRemember, rememberToken},
	}
	for _, p := range pairs {
		if p.token == "" {
			continue
		}
		claims, err := s.tokens.Parse(p.kind, p.token)
		if err != nil {
			continue
		}
		if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
			return fmt.Errorf("revoke %s token: %w", p.kind, err)
		}
		s.logger.Debug().Str("jti", claims.ID).Str("kind", string(p.kind)).Msg("token revoked")
	}
	return nil
}
