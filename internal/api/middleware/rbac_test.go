package middleware

import (
	"testing"

	"github.com/board-system/board-api/internal/core/domain"
)

func principalWith(role domain.UserRole, extra ...string) *domain.Principal {
	return domain.NewPrincipal(&domain.User{Email: "p@x.com", Role: role}, extra)
}

func TestRequirement_Allows(t *testing.T) {
	admin := principalWith(domain.RoleAdmin)
	member := principalWith(domain.RoleMember)
	guest := principalWith(domain.RoleGuest, "report")

	cases := []struct {
		name string
		req  Requirement
		p    *domain.Principal
		want bool
	}{
		{"permitAll anonymous", PermitAll(), nil, true},
		{"authenticated anonymous", Authenticated(), nil, false},
		{"authenticated guest", Authenticated(), guest, true},
		{"hasRole admin", HasRole("ADMIN"), admin, true},
		{"hasRole lower case", HasRole("admin"), admin, true},
		{"hasRole member", HasRole("ADMIN"), member, false},
		{"hasAnyRole manager or admin", HasAnyRole("ADMIN", "MANAGER"), admin, true},
		{"hasAnyRole member", HasAnyRole("ADMIN", "MANAGER"), member, false},
		{"hasAuthority access1 member", HasAuthority(domain.PermissionAccess1), member, true},
		{"hasAuthority access2 member", HasAuthority(domain.PermissionAccess2), member, false},
		{"hasAuthority access2 admin", HasAuthority(domain.PermissionAccess2), admin, true},
		{"hasAuthority from role record", HasAuthority("REPORT"), guest, true},
		{"hasAuthority anonymous", HasAuthority(domain.PermissionAccess1), nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.req.Allows(tc.p); got != tc.want {
				t.Fatalf("%s.Allows = %v, want %v", tc.req, got, tc.want)
			}
		})
	}
}

func TestRequirement_Anonymous(t *testing.T) {
	if !PermitAll().Anonymous() {
		t.Fatalf("permitAll must admit anonymous requests")
	}
	if Authenticated().Anonymous() || HasRole("ADMIN").Anonymous() {
		t.Fatalf("only permitAll admits anonymous requests")
	}
}
