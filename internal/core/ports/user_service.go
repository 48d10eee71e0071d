package ports

import (
	"context"
	"time"

	"github.com/board-system/board-api/internal/core/domain"
)

// UserRequest is a self-service sign-up.
type UserRequest struct {
	Email    string
	Nickname string
	Password string
}

// UserForAdminRequest is an account created by, or for, an administrator.
type UserForAdminRequest struct {
	Email    string
	Nickname string
	Password string
	Role     string
}

// ProfileRequest carries the fields a user may change on their own profile.
// Empty fields are left untouched.
type ProfileRequest struct {
	Nickname string
	Password string
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Nickname    string    `json:"nickname"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserService defines account use cases.
type UserService interface {
	CreateUser(ctx context.Context, req UserRequest) (*UserResponse, error)
	CreateAdmin(ctx context.Context, req UserForAdminRequest) (*UserResponse, error)
	CreateUserForAdmin(ctx context.Context, req UserForAdminRequest) (*UserResponse, error)
	LoadByEmail(ctx context.Context, email string) (*domain.Principal, error)
	FindByEmail(ctx context.Context, email string) (*UserResponse, error)
	FindAll(ctx context.Context) ([]UserResponse, error)
	UpdateProfile(ctx context.Context, email string, req ProfileRequest) (*UserResponse, error)
}
