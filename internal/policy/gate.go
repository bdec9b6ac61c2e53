package policy

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/maculado/companion/internal/auth"
	"github.com/maculado/companion/internal/models"
)

// RoleResolver fetches the role for a login. Implemented by the identity
// service; abstracted here so the gate stays free of storage types.
type RoleResolver interface {
	LookupRole(ctx context.Context, login string) (string, error)
}

// Gate answers role questions for the router, caching lookups briefly so a
// page render does not hit the users table once per guarded route.
type Gate struct {
	resolver RoleResolver
	ttl      time.Duration

	mu    sync.Mutex
	cache map[string]cachedRole
}

type cachedRole struct {
	role    string
	expires time.Time
}

// NewGate creates a gate with the given cache TTL.
func NewGate(resolver RoleResolver, ttl time.Duration) *Gate {
	return &Gate{resolver: resolver, ttl: ttl, cache: map[string]cachedRole{}}
}

// Role resolves the role for a login, consulting the cache first.
func (g *Gate) Role(ctx context.Context, login string) string {
	g.mu.Lock()
	if c, ok := g.cache[login]; ok && time.Now().Before(c.expires) {
		g.mu.Unlock()
		return c.role
	}
	g.mu.Unlock()

	role, err := g.resolver.LookupRole(ctx, login)
	if err != nil {
		return ""
	}
	g.mu.Lock()
	g.cache[login] = cachedRole{role: role, expires: time.Now().Add(g.ttl)}
	g.mu.Unlock()
	return role
}

// IsAdmin reports whether the context's account has the admin role.
func (g *Gate) IsAdmin(ctx context.Context) bool {
	login, ok := auth.LoginFromContext(ctx)
	if !ok {
		return false
	}
	return g.Role(ctx, login) == models.RoleAdmin
}

// Invalidate clears the cached role for a login. Call after a role change.
func (g *Gate) Invalidate(login string) {
	g.mu.Lock()
	delete(g.cache, login)
	g.mu.Unlock()
}

// RequireAdmin is middleware rejecting non-admin accounts with 403.
func (g *Gate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.IsAdmin(r.Context()) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
