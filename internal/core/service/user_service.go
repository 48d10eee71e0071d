package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

// UserService implements account registration and principal lookup.
type UserService struct {
	users   ports.UserRepository
	roles   ports.RoleRepository
	encoder ports.PasswordEncoder
	events  ports.EventDispatcher
	logger  zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	encoder ports.PasswordEncoder,
	events ports.EventDispatcher,
	logger zerolog.Logger,
) *UserService {
	return &UserService{users: users, roles: roles, encoder: encoder, events: events, logger: logger}
}

// CreateUser registers a self-service account with the MEMBER role.
func (s *UserService) CreateUser(ctx context.Context, req ports.UserRequest) (*ports.UserResponse, error) {
	return s.create(ctx, req.Email, req.Nickname, req.Password, domain.RoleMember)
}

// CreateAdmin registers an administrator account. The requested role is ignored.
func (s *UserService) CreateAdmin(ctx context.Context, req ports.UserForAdminRequest) (*ports.UserResponse, error) {
	return s.create(ctx, req.Email, req.Nickname, req.Password, domain.RoleAdmin)
}

// CreateUserForAdmin registers an account on behalf of an administrator with
// the requested role. An empty role defaults to MEMBER.
func (s *UserService) CreateUserForAdmin(ctx context.Context, req ports.UserForAdminRequest) (*ports.UserResponse, error) {
	role := domain.RoleMember
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := domain.ParseUserRole(req.Role)
		if !ok {
			return nil, fmt.Errorf("unknown role %q: %w", req.Role, domain.ErrInvalidInput)
		}
		role = parsed
	}
	return s.create(ctx, req.Email, req.Nickname, req.Password, role)
}

// EnsureInitialAdmin creates the bootstrap administrator unless the email is taken.
func (s *UserService) EnsureInitialAdmin(ctx context.Context, req ports.UserForAdminRequest) error {
	if req.Email == "" || req.Password == "" {
		return nil
	}
	_, err := s.CreateAdmin(ctx, req)
	if errors.Is(err, domain.ErrUserExists) {
		s.logger.Debug().Str("email", domain.NormalizeEmail(req.Email)).Msg("initial admin already present")
		return nil
	}
	return err
}

func (s *UserService) create(ctx context.Context, email, nickname, password string, role domain.UserRole) (*ports.UserResponse, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrInvalidInput)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.encoder.Encode(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		Nickname:     strings.TrimSpace(nickname),
		PasswordHash: hash,
		Role:         role,
		State:        domain.StateRegistered,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	if s.events != nil {
		s.events.Enqueue(domain.NewEvent(domain.EventUserCreated, created.Email, map[string]string{
			"user_id": created.ID,
			"role":    string(created.Role),
		}))
	}

	resp := toUserResponse(created)
	return &resp, nil
}

// LoadByEmail returns the authentication principal for email, including the
// permissions granted by a role record named after the user's role.
func (s *UserService) LoadByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	var extra []string
	if s.roles != nil {
		role, err := s.roles.FindByName(ctx, string(user.Role))
		switch {
		case err == nil:
			extra = role.Permissions
		case errors.Is(err, domain.ErrRoleNotFound):
		default:
			return nil, fmt.Errorf("load role permissions: %w", err)
		}
	}

	return domain.NewPrincipal(user, extra), nil
}

// FindByEmail returns the public view of a single account.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*ports.UserResponse, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// FindAll lists every account.
func (s *UserService) FindAll(ctx context.Context) ([]ports.UserResponse, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

// UpdateProfile changes the nickname and/or password of the account at email.
func (s *UserService) UpdateProfile(ctx context.Context, email string, req ports.ProfileRequest) (*ports.UserResponse, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if nick := strings.TrimSpace(req.Nickname); nick != "" {
		user.Nickname = nick
	}
	if req.Password != "" {
		hash, err := s.encoder.Encode(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(updated)
	return &resp, nil
}

func toUserResponse(u *domain.User) ports.UserResponse {
	return ports.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Nickname:    u.Nickname,
		Role:        string(u.Role),
		Permissions: u.Role.Permissions(),
		State:       string(u.State),
		CreatedAt:   u.CreatedAt,
	}
}
