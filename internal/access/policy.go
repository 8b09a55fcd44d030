package access

import (
	"strings"

	"github.com/pulse-hr/pulse/internal/identity"
)

// Application routes governed by the policy. Matching is done on the first
// path segment so nested pages inherit their section's rule.
const (
	RouteDashboard = "/dashboard"
	RouteSurvey    = "/survey"
	RouteQuestions = "/questions"
	RouteCustomers = "/customers"
	RouteReports   = "/reports"
	RouteLogin     = "/auth/login"
)

// Decision is the outcome of a route check: whether the navigation may
// proceed and, if not, where the guard should send the requester instead.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// CanAccessRoute reports whether the principal may open the given path.
// Rules are evaluated in order, first match wins:
//
//  1. missing/malformed principal: deny
//  2. employee kind: only /survey and /dashboard
//  3. master role: everything
//  4. hr kind (non-master): everything except /customers
//  5. otherwise: deny
func CanAccessRoute(p *identity.Principal, path string) bool {
	if p == nil || !p.Valid() {
		return false
	}
	section := sectionOf(path)
	if p.Kind == identity.KindEmployee {
		return section == RouteSurvey || section == RouteDashboard
	}
	if p.Role == identity.RoleMaster {
		return true
	}
	if p.Kind == identity.KindHR {
		return section != RouteCustomers
	}
	return false
}

// LandingRoute is the post-login destination, also used as the redirect
// target on denied navigation. It always satisfies CanAccessRoute for the
// same principal.
func LandingRoute(p *identity.Principal) string {
	if p != nil && p.Kind == identity.KindEmployee {
		return RouteSurvey
	}
	return RouteDashboard
}

// Check combines both decisions for the navigation guard.
func Check(p *identity.Principal, path string) Decision {
	if p == nil || !p.Valid() {
		return Decision{Allowed: false, RedirectTo: RouteLogin}
	}
	if CanAccessRoute(p, path) {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, RedirectTo: LandingRoute(p)}
}

// RestrictedNotice reports whether the employee restriction banner should
// overlay the page. This is a presentation flag layered on top of the access
// decision, not an access rule: employees see it everywhere except the
// survey itself.
func RestrictedNotice(p *identity.Principal, path string) bool {
	if p == nil || p.Kind != identity.KindEmployee {
		return false
	}
	return sectionOf(path) != RouteSurvey
}

func sectionOf(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == "/" {
		return RouteDashboard
	}
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}
