package ports

import (
	"context"

	"github.com/board-system/board-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts user and returns the stored copy with its ID set.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// Update persists nickname, password hash, role and state of an existing user.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
