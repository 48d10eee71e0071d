// Package memory provides process-local repositories for development runs
// and tests. Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.users[stored.Email] = stored
	return &stored, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[email]
	return ok, nil
}

func (r *UserRepository) FindAll(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.Email] = *user
	return user, nil
}

type RoleRepository struct {
	mu     sync.Mutex
	roles  map[int64]domain.Role
	nextID int64
}

func NewRoleRepository() *RoleRepository {
	return &RoleRepository{roles: make(map[int64]domain.Role)}
}

func copyRole(r domain.Role) *domain.Role {
	r.Permissions = append([]string{}, r.Permissions...)
	return &r
}

func (r *RoleRepository) FindAll(_ context.Context) ([]*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, copyRole(role))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RoleRepository) FindByID(_ context.Context, id int64) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return copyRole(role), nil
}

func (r *RoleRepository) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.lookup(name); ok {
		return copyRole(r.roles[id]), nil
	}
	return nil, domain.ErrRoleNotFound
}

func (r *RoleRepository) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lookup(role.Name); ok {
		return nil, domain.ErrRoleExists
	}
	r.nextID++
	stored := *copyRole(*role)
	stored.ID = r.nextID
	r.roles[stored.ID] = stored
	return copyRole(stored), nil
}

// Update holds the repository lock across find, mutate and save.
func (r *RoleRepository) Update(_ context.Context, id int64, mutate ports.RoleMutation) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	working := copyRole(current)
	if err := mutate(working); err != nil {
		return nil, err
	}
	if other, ok := r.lookup(working.Name); ok && other != id {
		return nil, domain.ErrRoleExists
	}
	r.roles[id] = *copyRole(*working)
	return working, nil
}

func (r *RoleRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.roles, id)
	return nil
}

func (r *RoleRepository) lookup(name string) (int64, bool) {
	for id, role := range r.roles {
		if strings.EqualFold(role.Name, strings.TrimSpace(name)) {
			return id, true
		}
	}
	return 0, false
}

// TokenDenylist keeps revoked token ids until they expire.
type TokenDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke records id until expiresAt and drops every entry that has already
// expired, so tokens never presented again do not accumulate.
func (d *TokenDenylist) Revoke(_ context.Context, id string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for jti, exp := range d.revoked {
		if !now.Before(exp) {
			delete(d.revoked, jti)
		}
	}
	if now.Before(expiresAt) {
		d.revoked[id] = expiresAt
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.revoked[id]
	if !ok {
		return false, nil
	}
	if !d.now().Before(exp) {
		delete(d.revoked, id)
		return false, nil
	}
	return true, nil
}

// Len reports the number of tracked revocations.
func (d *TokenDenylist) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.revoked)
}

