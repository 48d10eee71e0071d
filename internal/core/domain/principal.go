package domain

import (
	"strings"
	"time"
)

// RolePrefix marks an authority that encodes a role rather than a permission.
const RolePrefix = "ROLE_"

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID       string
	Email        string
	Nickname     string
	PasswordHash string
	Role         UserRole
	State        UserState
	Authorities  []string
	CreatedAt    time.Time
}

// NewPrincipal derives a principal from a user plus any permissions granted by
// role records that share the user's role name.
func NewPrincipal(u *User, extra ...[]string) *Principal {
	perms := u.Role.Permissions()
	for _, e := range extra {
		perms = append(perms, e...)
	}
	authorities := append([]string{RolePrefix + string(u.Role)}, NormalizePermissions(perms)...)

	return &Principal{
		UserID:       u.ID,
		Email:        u.Email,
		Nickname:     u.Nickname,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		State:        u.State,
		Authorities:  authorities,
		CreatedAt:    u.CreatedAt,
	}
}

// HasRole reports whether the principal holds role (without the ROLE_ prefix).
func (p *Principal) HasRole(role string) bool {
	return p.HasAuthority(RolePrefix + strings.ToUpper(role))
}

// HasAuthority reports whether the principal holds the given authority.
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// Permissions returns the authorities that are not role markers.
func (p *Principal) Permissions() []string {
	out := make([]string, 0, len(p.Authorities))
	for _, a := range p.Authorities {
		if !strings.HasPrefix(a, RolePrefix) {
			out = append(out, a)
		}
	}
	return out
}
