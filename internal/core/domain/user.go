package domain

import (
	"strings"
	"time"
)

// UserRole is the single role a user account carries.
type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleMember UserRole = "MEMBER"
	RoleGuest  UserRole = "GUEST"
)

// Built-in permission strings granted through UserRole.
const (
	PermissionAccess1 = "ACCESS1"
	PermissionAccess2 = "ACCESS2"
)

var rolePermissions = map[UserRole][]string{
	RoleAdmin:  {PermissionAccess1, PermissionAccess2},
	RoleMember: {PermissionAccess1},
	RoleGuest:  {},
}

// ParseUserRole converts s (case-insensitive) into a UserRole.
func ParseUserRole(s string) (UserRole, bool) {
	r := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := rolePermissions[r]
	return r, ok
}

// Permissions returns a copy of the permissions built into the role.
func (r UserRole) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

func (r UserRole) String() string { return string(r) }

// UserState tracks the account lifecycle. Accounts are never hard-deleted.
type UserState string

const (
	StateRegistered UserState = "REGISTERED"
	StateWithdrawn  UserState = "WITHDRAWN"
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	State        UserState `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail lower-cases and trims an address so uniqueness checks are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
