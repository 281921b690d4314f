package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/cinedex/cinedex/internal/httputil"
)

type ctxKey int

const sessionKey ctxKey = 0

// Session is the authenticated caller attached to the request context
// by RequireAuth.
type Session struct {
	UserID  string
	IsAdmin bool
}

var errSessionExpired = errors.New("session expired")

// Middleware gates API routes on a valid session token.
type Middleware struct {
	db *sql.DB
}

func NewMiddleware(db *sql.DB) *Middleware {
	return &Middleware{db: db}
}

// RequireAuth resolves the request's token to a session row and
// attaches it to the context. Expired sessions are purged on first
// use.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		sess, err := m.lookup(token)
		if errors.Is(err, errSessionExpired) {
			httputil.WriteError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "session expired")
			return
		}
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

// RequireAdmin wraps an already-authenticated route.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := UserFromContext(r.Context())
		if sess == nil || !sess.IsAdmin {
			httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// lookup fetches the session for a token, deleting it once past its
// expiry.
func (m *Middleware) lookup(token string) (Session, error) {
	var sess Session
	var expiresAt int64
	row := m.db.QueryRow(
		"SELECT user_id, is_admin, expires_at FROM sessions WHERE token = $1", token)
	if err := row.Scan(&sess.UserID, &sess.IsAdmin, &expiresAt); err != nil {
		return Session{}, err
	}
	if IsTokenExpired(expiresAt) {
		m.db.Exec("DELETE FROM sessions WHERE token = $1", token)
		return Session{}, errSessionExpired
	}
	return sess, nil
}

// UserFromContext returns the session attached by RequireAuth, or nil
// on unauthenticated requests.
func UserFromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey).(Session); ok {
		return &s
	}
	return nil
}

// bearerToken reads the Authorization header, falling back to the
// cookie set for browser clients.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie("cinedex_session"); err == nil {
		return c.Value
	}
	return ""
}
