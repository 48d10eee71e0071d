package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/board-system/board-api/internal/api/middleware"
	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

var errNotStubbed = errors.New("not stubbed")

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func withPrincipal(c echo.Context, email string, role domain.UserRole) {
	c.Set(middleware.PrincipalKey, domain.NewPrincipal(&domain.User{Email: email, Role: role, State: domain.StateRegistered}))
}

type stubAuthService struct {
	signInFn func(ctx context.Context, email, password string, rememberMe bool) (*ports.SignInResult, error)
	logoutFn func(ctx context.Context, access, remember string) error
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string, rememberMe bool) (*ports.SignInResult, error) {
	if s.signInFn == nil {
		return nil, errNotStubbed
	}
	return s.signInFn(ctx, email, password, rememberMe)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Principal, error) {
	return nil, errNotStubbed
}

func (s *stubAuthService) AuthenticateRememberMe(context.Context, string) (*domain.Principal, string, error) {
	return nil, "", errNotStubbed
}

func (s *stubAuthService) Logout(ctx context.Context, access, remember string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, access, remember)
}

type stubUserService struct {
	createUserFn     func(ctx context.Context, req ports.UserRequest) (*ports.UserResponse, error)
	createAdminFn    func(ctx context.Context, req ports.UserForAdminRequest) (*ports.UserResponse, error)
	createForAdminFn func(ctx context.Context, req ports.UserForAdminRequest) (*ports.UserResponse, error)
	findByEmailFn    func(ctx context.Context, email string) (*ports.UserResponse, error)
	findAllFn        func(ctx context.Context) ([]ports.UserResponse, error)
	updateProfileFn  func(ctx context.Context, email string, req ports.ProfileRequest) (*ports.UserResponse, error)
}

func (s *stubUserService) CreateUser(ctx context.Context, req ports.UserRequest) (*ports.UserResponse, error) {
	if s.createUserFn == nil {
		return nil, errNotStubbed
	}
	return s.createUserFn(ctx, req)
}

func (s *stubUserService) CreateAdmin(ctx context.Context, req ports.UserForAdminRequest) (*ports.UserResponse, error) {
	if s.createAdminFn == nil {
		return nil, errNotStubbed
	}
	return s.createAdminFn(ctx, req)
}

func (s *stubUserService) CreateUserForAdmin(ctx context.Context, req ports.UserForAdminRequest) (*ports.UserResponse, error) {
	if s.createForAdminFn == nil {
		return nil, errNotStubbed
	}
	return s.createForAdminFn(ctx, req)
}

func (s *stubUserService) LoadByEmail(context.Context, string) (*domain.Principal, error) {
	return nil, errNotStubbed
}

func (s *stubUserService) FindByEmail(ctx context.Context, email string) (*ports.UserResponse, error) {
	if s.findByEmailFn == nil {
		return nil, errNotStubbed
	}
	return s.findByEmailFn(ctx, email)
}

func (s *stubUserService) FindAll(ctx context.Context) ([]ports.UserResponse, error) {
	if s.findAllFn == nil {
		return nil, errNotStubbed
	}
	return s.findAllFn(ctx)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, email string, req ports.ProfileRequest) (*ports.UserResponse, error) {
	if s.updateProfileFn == nil {
		return nil, errNotStubbed
	}
	return s.updateProfileFn(ctx, email, req)
}

type stubRoleService struct {
	roles map[int64]ports.RoleResponse
}

func (s *stubRoleService) FindAll(context.Context) ([]ports.RoleResponse, error) {
	out := make([]ports.RoleResponse, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRoleService) FindByID(_ context.Context, id int64) (*ports.RoleResponse, error) {
	r, ok := s.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return &r, nil
}

func (s *stubRoleService) Create(_ context.Context, req ports.RoleRequest) (*ports.RoleResponse, error) {
	for _, r := range s.roles {
		if r.Name == req.Name {
			return nil, domain.ErrRoleExists
		}
	}
	r := ports.RoleResponse{ID: int64(len(s.roles) + 1), Name: req.Name, Permissions: req.Permissions}
	s.roles[r.ID] = r
	return &r, nil
}

func (s *stubRoleService) Update(_ context.Context, id int64, req ports.RoleRequest) error {
	r, ok := s.roles[id]
	if !ok {
		return domain.ErrRoleNotFound
	}
	r.Name, r.Permissions = req.Name, req.Permissions
	s.roles[id] = r
	return nil
}

func (s *stubRoleService) Delete(_ context.Context, id int64) error {
	if _, ok := s.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(s.roles, id)
	return nil
}
