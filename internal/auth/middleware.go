package auth

import (
	"net/http"
	"strings"
)

// SessionCookie is the cookie the login collaborator stores the token in.
const SessionCookie = "session"

// Middleware resolves the session token on every request and guards the
// protected routes. Unauthenticated hits on protected routes are redirected
// to the login page rather than answered with an HTTP error.
type Middleware struct {
	cfg       Config
	protected map[string]struct{}
	loginPath string
}

// NewMiddleware constructs Middleware guarding the given paths.
func NewMiddleware(cfg Config, protectedPaths []string, loginPath string) Middleware {
	protected := make(map[string]struct{}, len(protectedPaths))
	for _, path := range protectedPaths {
		protected[path] = struct{}{}
	}
	return Middleware{cfg: cfg, protected: protected, loginPath: loginPath}
}

// Wrap attaches identity resolution to an http.Handler.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := tokenFromRequest(r); token != "" {
			if identity, err := Parse(token, m.cfg); err == nil {
				r = r.WithContext(WithIdentity(r.Context(), identity))
			}
		}

		if _, guarded := m.protected[r.URL.Path]; guarded {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				http.Redirect(w, r, m.loginPath, http.StatusFound)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}
