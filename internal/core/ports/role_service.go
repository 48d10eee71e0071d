package ports

import (
	"context"
	"time"
)

// RoleRequest carries the writable fields of a role.
type RoleRequest struct {
	Name        string
	Permissions []string
}

// RoleResponse is the public view of a role.
type RoleResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleService defines role administration use cases.
type RoleService interface {
	FindAll(ctx context.Context) ([]RoleResponse, error)
	FindByID(ctx context.Context, id int64) (*RoleResponse, error)
	Create(ctx context.Context, req RoleRequest) (*RoleResponse, error)
	Update(ctx context.Context, id int64, req RoleRequest) error
	Delete(ctx context.Context, id int64) error
}
