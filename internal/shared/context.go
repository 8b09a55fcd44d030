package shared

import (
	"context"

	"github.com/pulse-hr/pulse/internal/identity"
)

type sessionContextKey struct{}

type principalContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithPrincipal stores the authenticated principal in context.
func ContextWithPrincipal(ctx context.Context, p *identity.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the authenticated principal, nil when the
// request is anonymous.
func PrincipalFromContext(ctx context.Context) *identity.Principal {
	p, _ := ctx.Value(principalContextKey{}).(*identity.Principal)
	return p
}
