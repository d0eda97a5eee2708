// Package httpapi implements the HTTP surface for the auth and trading
// services (spec §6): session-cookie middleware, register/login/logout
// handlers, and the order-submission handler, grounded in the teacher's
// internal/api/api.go writeJSON/writeError/mux conventions.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/htfilia/tradingboard/internal/session"
)

// CookieConfig controls the session cookie written on register/login and
// cleared on logout (spec §6: "HTTP-only, SameSite=Lax, Secure per
// config, path /, max-age = session TTL").
type CookieConfig struct {
	Name       string
	Domain     string
	Secure     bool
	SessionTTL time.Duration
}

func (c CookieConfig) cookie(token string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Domain:   c.Domain,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response shaped {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// contextKey avoids collisions in request context values.
type contextKey int

const userIDKey contextKey = 0

// CORS wraps a handler with permissive-by-config CORS headers, mirroring
// the teacher's single-purpose middleware shape (no third-party CORS
// library is imported anywhere in the example pack).
func CORS(origins []string, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession resolves the session cookie against the store, writing
// 401 if it is missing, expired, or unknown; otherwise stashes the
// resolved user id in the request context for the wrapped handler.
func RequireSession(sessions session.Store, cookieName string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(cookieName)
		if err != nil || c.Value == "" {
			writeError(w, http.StatusUnauthorized, "missing session")
			return
		}
		sess, err := sessions.Get(r.Context(), c.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "session lookup failed")
			return
		}
		if sess == nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		ctx := withUserID(r.Context(), sess.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
