package access

import (
	"log/slog"
	"net/http"

	"github.com/pulse-hr/pulse/internal/identity"
	"github.com/pulse-hr/pulse/internal/shared"
)

// Guard enforces the route policy in front of guarded sections. It only
// performs the redirect; the allow/deny decision itself lives in policy.go.
type Guard struct {
	Logger *slog.Logger
}

// Require gates mutating endpoints on a single capability from the derived
// permission set. Route-level reachability stays with Protect; this guards
// the operations inside an already reachable section.
func (g Guard) Require(capability func(identity.PermissionSet) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil || !capability(principal.Permissions) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Protect wraps a handler subtree with the route access check.
func (g Guard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := shared.PrincipalFromContext(r.Context())
		decision := Check(principal, r.URL.Path)
		if decision.Allowed {
			next.ServeHTTP(w, r)
			return
		}
		if g.Logger != nil {
			g.Logger.Info("route denied",
				slog.String("path", r.URL.Path),
				slog.String("redirect", decision.RedirectTo),
			)
		}
		http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
	})
}
