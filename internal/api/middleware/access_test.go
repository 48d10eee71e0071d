package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/board-system/board-api/internal/core/domain"
)

func TestMatchPath(t *testing.T) {
	cases := []struct {
		pattern, path string
		want          bool
	}{
		{"/admin/**", "/admin", true},
		{"/admin/**", "/admin/", true},
		{"/admin/**", "/admin/roles/3", true},
		{"/admin/**", "/administrator", false},
		{"/profile/**", "/profile", true},
		{"/api/public/test1", "/api/public/test1", true},
		{"/api/public/test1", "/api/public/test10", false},
		{"/api/*/users", "/api/public/users", true},
		{"/api/*/users", "/api/public/x/users", false},
		{"/**/*.html", "/static/a/index.html", true},
		{"/index.html", "/index.html", true},
	}
	for _, tc := range cases {
		if got := MatchPath(tc.pattern, tc.path); got != tc.want {
			t.Errorf("MatchPath(%q, %q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}

func TestMatchRule_FirstMatchWins(t *testing.T) {
	rule, ok := MatchRule(DefaultRules(), "/admin/sign-up")
	if !ok || !rule.Requirement.Anonymous() {
		t.Fatalf("/admin/sign-up must be permitAll, got %+v", rule)
	}

	rule, ok = MatchRule(DefaultRules(), "/admin/roles")
	if !ok || rule.Pattern != "/admin/**" {
		t.Fatalf("expected /admin/** rule, got %+v", rule)
	}

	if _, ok := MatchRule(DefaultRules(), "/sign-in"); ok {
		t.Fatalf("/sign-in must not match any rule")
	}
}

func serveWithPrincipal(path string, p *domain.Principal) int {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(PrincipalKey, p)
	}

	handler := AccessControl(DefaultRules())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code
}

func TestAccessControl_DefaultRules(t *testing.T) {
	admin := principalWith(domain.RoleAdmin)
	member := principalWith(domain.RoleMember)
	guest := principalWith(domain.RoleGuest)

	cases := []struct {
		name string
		path string
		p    *domain.Principal
		want int
	}{
		{"admin sign-up anonymous", "/admin/sign-up", nil, http.StatusOK},
		{"index anonymous", "/index.html", nil, http.StatusOK},
		{"unmatched anonymous", "/sign-in", nil, http.StatusOK},
		{"profile anonymous", "/profile", nil, http.StatusUnauthorized},
		{"profile member", "/profile", member, http.StatusOK},
		{"admin anonymous", "/admin/roles", nil, http.StatusUnauthorized},
		{"admin member", "/admin/roles", member, http.StatusForbidden},
		{"admin admin", "/admin/roles", admin, http.StatusOK},
		{"manager member", "/manager/index", member, http.StatusForbidden},
		{"manager admin", "/manager/index", admin, http.StatusOK},
		{"test1 member", "/api/public/test1", member, http.StatusOK},
		{"test1 guest", "/api/public/test1", guest, http.StatusForbidden},
		{"test2 member", "/api/public/test2", member, http.StatusForbidden},
		{"test2 admin", "/api/public/test2", admin, http.StatusOK},
		{"users member", "/api/public/users", member, http.StatusForbidden},
		{"users admin", "/api/public/users", admin, http.StatusOK},
		{"users anonymous", "/api/public/users", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := serveWithPrincipal(tc.path, tc.p); got != tc.want {
				t.Fatalf("GET %s: expected %d, got %d", tc.path, tc.want, got)
			}
		})
	}
}
