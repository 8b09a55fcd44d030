package auth

import (
	"net/http"

	"github.com/pulse-hr/pulse/internal/shared"
)

// PrincipalLoader restores the logged-in principal from the session and
// attaches it to the request context for the route guard and handlers.
func PrincipalLoader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if principal := CurrentPrincipal(sess); principal != nil {
			r = r.WithContext(shared.ContextWithPrincipal(r.Context(), principal))
		}
		next.ServeHTTP(w, r)
	})
}
