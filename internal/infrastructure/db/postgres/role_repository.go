package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

// RoleRepository persists roles through gorm.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindAll(ctx context.Context) ([]*domain.Role, error) {
	var rows []roleModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out := make([]*domain.Role, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	var row roleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var row roleModel
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role by name: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	row := roleModelFromDomain(role)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return row.toDomain(), nil
}

// Update locks the row, applies mutate and saves it in a single transaction.
func (r *RoleRepository) Update(ctx context.Context, id int64, mutate ports.RoleMutation) (*domain.Role, error) {
	var updated *domain.Role
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row roleModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRoleNotFound
			}
			return err
		}

		role := row.toDomain()
		if err := mutate(role); err != nil {
			return err
		}

		next := roleModelFromDomain(role)
		if err := tx.Model(&roleModel{}).Where("id = ?", id).Updates(map[string]any{
			"name":        next.Name,
			"permissions": next.Permissions,
			"updated_at":  next.UpdatedAt,
		}).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrRoleExists
			}
			return err
		}
		updated = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&roleModel{})
	if result.Error != nil {
		return fmt.Errorf("delete role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}
