package domain

import (
	"sort"
	"strings"
	"time"
)

// Role is a named permission bundle managed by administrators.
//
// A Role whose Name matches a user's UserRole contributes its permissions to
// that user's authorities.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRole builds a Role with a normalized permission set.
func NewRole(name string, permissions []string) Role {
	return Role{
		Name:        strings.TrimSpace(name),
		Permissions: NormalizePermissions(permissions),
	}
}

// Update copies the mutable fields of other onto r.
func (r *Role) Update(other Role) {
	r.Name = strings.TrimSpace(other.Name)
	r.Permissions = NormalizePermissions(other.Permissions)
	r.UpdatedAt = time.Now().UTC()
}

// NormalizePermissions trims, upper-cases, de-duplicates and sorts perms.
func NormalizePermissions(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
