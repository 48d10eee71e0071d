package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

var testLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = "user-" + strconv.Itoa(r.nextID)
	r.users[copy.Email] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.users[email]
	return ok, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.Email]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

type stubRoleRepo struct {
	roles  map[int64]*domain.Role
	nextID int64
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[int64]*domain.Role)}
}

func cloneRole(r *domain.Role) *domain.Role {
	clone := *r
	clone.Permissions = append([]string(nil), r.Permissions...)
	return &clone
}

func (r *stubRoleRepo) FindAll(_ context.Context) ([]*domain.Role, error) {
	out := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, cloneRole(role))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id int64) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return cloneRole(role), nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range r.roles {
		if strings.EqualFold(role.Name, name) {
			return cloneRole(role), nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	for _, existing := range r.roles {
		if strings.EqualFold(existing.Name, role.Name) {
			return nil, domain.ErrRoleExists
		}
	}
	r.nextID++
	stored := cloneRole(role)
	stored.ID = r.nextID
	r.roles[stored.ID] = stored
	return cloneRole(stored), nil
}

func (r *stubRoleRepo) Update(_ context.Context, id int64, mutate ports.RoleMutation) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	working := cloneRole(role)
	if err := mutate(working); err != nil {
		return nil, err
	}
	r.roles[id] = working
	return cloneRole(working), nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.roles, id)
	return nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type recordingDispatcher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (d *recordingDispatcher) Enqueue(e domain.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

type memoryDenylist struct {
	revoked map[string]time.Time
}

func newMemoryDenylist() *memoryDenylist {
	return &memoryDenylist{revoked: make(map[string]time.Time)}
}

func (d *memoryDenylist) Revoke(_ context.Context, id string, exp time.Time) error {
	d.revoked[id] = exp
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := d.revoked[id]
	return ok, nil
}
