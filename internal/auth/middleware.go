package auth

import (
	"context"
	"net/http"
)

// CookieName carries the session token.
const CookieName = "solventory_session"

type contextKey struct{}

// Middleware resolves the session cookie and, when valid, attaches the actor
// identity to the request context. Requests without a session pass through
// unauthenticated; handlers decide whether that is acceptable.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err == nil {
			if actor, ok := m.Resolve(c.Value); ok {
				r = r.WithContext(context.WithValue(r.Context(), contextKey{}, actor))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ActorFromContext returns the authenticated actor's display identity.
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(contextKey{}).(string)
	return actor, ok
}
