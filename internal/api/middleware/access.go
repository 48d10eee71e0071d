package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/board-system/board-api/internal/api/metrics"
	"github.com/board-system/board-api/internal/core/domain"
)

// Rule binds an ant-style path pattern to a requirement.
type Rule struct {
	Pattern     string
	Requirement Requirement
}

// DefaultRules is the access table of the board API. Order matters: the
// first matching pattern decides.
func DefaultRules() []Rule {
	return []Rule{
		{"/admin/sign-up", PermitAll()},
		{"/index.html", PermitAll()},
		{"/profile/**", Authenticated()},
		{"/admin/**", HasRole(string(domain.RoleAdmin))},
		{"/manager/**", HasAnyRole(string(domain.RoleAdmin), "MANAGER")},
		{"/api/public/test1", HasAuthority(domain.PermissionAccess1)},
		{"/api/public/test2", HasAuthority(domain.PermissionAccess2)},
		{"/api/public/users", HasRole(string(domain.RoleAdmin))},
	}
}

// AccessControl enforces rules against the request path. It must run after
// Authorization. Paths matching no rule are permitted.
func AccessControl(rules []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rule, ok := MatchRule(rules, c.Request().URL.Path)
			if !ok {
				return next(c)
			}

			principal := PrincipalFrom(c)
			if rule.Requirement.Allows(principal) {
				return next(c)
			}
			if principal == nil {
				metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
			return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
		}
	}
}

// MatchRule returns the first rule whose pattern matches p.
func MatchRule(rules []Rule, p string) (Rule, bool) {
	for _, r := range rules {
		if MatchPath(r.Pattern, p) {
			return r, true
		}
	}
	return Rule{}, false
}

// MatchPath reports whether p matches the ant-style pattern. "**" matches
// zero or more segments; within a segment "*" and "?" follow path.Match.
func MatchPath(pattern, p string) bool {
	return matchSegments(splitPath(pattern), splitPath(p))
}

func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, err := path.Match(pat[0], segs[0]); err != nil || !ok {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}

func splitPath(p string) []string {
	fields := strings.Split(p, "/")
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
