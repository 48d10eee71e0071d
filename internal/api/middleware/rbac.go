package middleware

import (
	"strings"

	"github.com/board-system/board-api/internal/core/domain"
)

type requirementKind int

const (
	kindPermitAll requirementKind = iota
	kindAuthenticated
	kindAnyRole
	kindAuthority
)

// Requirement is the access condition attached to a path pattern.
type Requirement struct {
	kind      requirementKind
	roles     []string
	authority string
}

// PermitAll lets every request through, anonymous or not.
func PermitAll() Requirement { return Requirement{kind: kindPermitAll} }

// Authenticated requires any authenticated principal.
func Authenticated() Requirement { return Requirement{kind: kindAuthenticated} }

// HasRole requires the principal to hold role.
func HasRole(role string) Requirement { return HasAnyRole(role) }

// HasAnyRole requires the principal to hold at least one of roles.
func HasAnyRole(roles ...string) Requirement {
	return Requirement{kind: kindAnyRole, roles: roles}
}

// HasAuthority requires the principal to hold authority.
func HasAuthority(authority string) Requirement {
	return Requirement{kind: kindAuthority, authority: authority}
}

// Anonymous reports whether the requirement admits unauthenticated requests.
func (r Requirement) Anonymous() bool {
	return r.kind == kindPermitAll
}

// Allows reports whether p satisfies the requirement. A nil p is anonymous.
func (r Requirement) Allows(p *domain.Principal) bool {
	switch r.kind {
	case kindPermitAll:
		return true
	case kindAuthenticated:
		return p != nil
	case kindAnyRole:
		if p == nil {
			return false
		}
		for _, role := range r.roles {
			if p.HasRole(role) {
				return true
			}
		}
		return false
	case kindAuthority:
		return p != nil && p.HasAuthority(r.authority)
	}
	return false
}

func (r Requirement) String() string {
	switch r.kind {
	case kindPermitAll:
		return "permitAll"
	case kindAuthenticated:
		return "authenticated"
	case kindAnyRole:
		return "hasAnyRole(" + strings.Join(r.roles, ",") + ")"
	case kindAuthority:
		return "hasAuthority(" + r.authority + ")"
	}
	return "unknown"
}
