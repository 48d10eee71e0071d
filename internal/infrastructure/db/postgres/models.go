package postgres

import (
	"strings"
	"time"

	"github.com/board-system/board-api/internal/core/domain"
)

type userModel struct {
	ID           string    `gorm:"column:id;primaryKey;type:uuid"`
	Email        string    `gorm:"column:email;uniqueIndex;size:320;not null"`
	Nickname     string    `gorm:"column:nickname;size:120"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	Role         string    `gorm:"column:role;size:16;not null"`
	State        string    `gorm:"column:state;size:16;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func userModelFromDomain(u *domain.User) userModel {
	return userModel{
		ID:           u.ID,
		Email:        u.Email,
		Nickname:     u.Nickname,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		State:        string(u.State),
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (m userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Nickname:     m.Nickname,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		State:        domain.UserState(m.State),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// roleModel stores permissions space-delimited. Name uniqueness is
// case-insensitive and enforced by idx_roles_name_lower, created in Migrate.
type roleModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;size:64;not null"`
	Permissions string    `gorm:"column:permissions;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (roleModel) TableName() string { return "roles" }

func roleModelFromDomain(r *domain.Role) roleModel {
	return roleModel{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: strings.Join(r.Permissions, " "),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func (m roleModel) toDomain() *domain.Role {
	perms := strings.Fields(m.Permissions)
	if perms == nil {
		perms = []string{}
	}
	return &domain.Role{
		ID:          m.ID,
		Name:        m.Name,
		Permissions: perms,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}
