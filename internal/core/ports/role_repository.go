package ports

import (
	"context"

	"github.com/board-system/board-api/internal/core/domain"
)

// RoleMutation changes a loaded role in place before it is saved.
type RoleMutation func(role *domain.Role) error

// RoleRepository defines persistence operations for role records.
type RoleRepository interface {
	FindAll(ctx context.Context) ([]*domain.Role, error)
	FindByID(ctx context.Context, id int64) (*domain.Role, error)
	// FindByName matches case-insensitively; domain.ErrRoleNotFound when absent.
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	// Update loads the role, applies mutate and saves it within one transaction.
	Update(ctx context.Context, id int64, mutate RoleMutation) (*domain.Role, error)
	Delete(ctx context.Context, id int64) error
}
