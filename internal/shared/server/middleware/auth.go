package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contract-backend/internal/sessions"
	"contract-backend/internal/shared/server/respond"
)

const (
	sessionKey  = "session"
	usernameKey = "username"
)

// Authenticator resolves a bearer token to the caller's session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (sessions.Session, error)
}

// Auth requires a valid bearer token for an active session and stores the
// session in context.
func Auth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		sess, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			if sessions.IsAuthError(err) {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			respond.Error(c, http.StatusServiceUnavailable, "session_store_unavailable", "Unable to verify session", nil)
			return
		}

		c.Set(sessionKey, sess)
		c.Set(usernameKey, sess.Username)
		c.Next()
	}
}

// RequireAdmin rejects callers whose username is not admin. It must run after Auth.
func RequireAdmin(admin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UsernameFromContext(c) != admin {
			respond.Error(c, http.StatusForbidden, "forbidden", "Admin access required", nil)
			return
		}
		c.Next()
	}
}

// SessionFromContext fetches the session set by the auth middleware.
func SessionFromContext(c *gin.Context) (sessions.Session, bool) {
	if c == nil {
		return sessions.Session{}, false
	}
	val, ok := c.Get(sessionKey)
	if !ok {
		return sessions.Session{}, false
	}
	sess, ok := val.(sessions.Session)
	return sess, ok
}

// UsernameFromContext fetches the username set by the auth middleware.
func UsernameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(usernameKey)
}
