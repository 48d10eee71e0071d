package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

// RoleService implements CRUD over role records.
type RoleService struct {
	repo   ports.RoleRepository
	events ports.EventDispatcher
	logger zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, events ports.EventDispatcher, logger zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, events: events, logger: logger}
}

func (s *RoleService) FindAll(ctx context.Context) ([]ports.RoleResponse, error) {
	roles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return out, nil
}

func (s *RoleService) FindByID(ctx context.Context, id int64) (*ports.RoleResponse, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *RoleService) Create(ctx context.Context, req ports.RoleRequest) (*ports.RoleResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("role name is required: %w", domain.ErrInvalidInput)
	}

	role := domain.NewRole(req.Name, req.Permissions)
	now := time.Now().UTC()
	role.CreatedAt, role.UpdatedAt = now, now

	created, err := s.repo.Create(ctx, &role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("role_id", created.ID).Str("name", created.Name).Msg("role created")
	s.publish(created, "created")

	resp := toRoleResponse(created)
	return &resp, nil
}

// Update replaces the name and permissions of an existing role in place.
func (s *RoleService) Update(ctx context.Context, id int64, req ports.RoleRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("role name is required: %w", domain.ErrInvalidInput)
	}

	updated, err := s.repo.Update(ctx, id, func(role *domain.Role) error {
		role.Update(domain.NewRole(req.Name, req.Permissions))
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("role_id", id).Msg("role updated")
	s.publish(updated, "updated")
	return nil
}

func (s *RoleService) Delete(ctx context.Context, id int64) error {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, role.ID); err != nil {
		return err
	}

	s.logger.Info().Int64("role_id", id).Msg("role deleted")
	s.publish(role, "deleted")
	return nil
}

func (s *RoleService) publish(role *domain.Role, action string) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.NewEvent(domain.EventRoleChanged, strconv.FormatInt(role.ID, 10), map[string]string{
		"action":      action,
		"name":        role.Name,
		"permissions": strings.Join(role.Permissions, ","),
	}))
}

func toRoleResponse(r *domain.Role) ports.RoleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return ports.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
