package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arklim/social-platform-accounts/internal/core/port"
)

const (
	sessionCookieName = "account_session"
	sessionContextKey = "account_session_store"
)

// SessionResolver hands out a store bound to an opaque session id.
type SessionResolver interface {
	Handle(sessionID string) port.SessionStore
}

// Session binds each request to its session store. A missing cookie gets a
// fresh id; the cookie refreshes on every request so its lifetime follows
// the backend TTL.
func Session(resolver SessionResolver, maxAge time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookieName)
		if err != nil || sid == "" {
			sid = uuid.NewString()
		}

		c.SetCookie(sessionCookieName, sid, int(maxAge.Seconds()), "/", "", secure, true)
		c.Set(sessionContextKey, resolver.Handle(sid))

		c.Next()
	}
}

// SessionFromContext returns the store bound by the Session middleware, or
// nil when the middleware did not run.
func SessionFromContext(c *gin.Context) port.SessionStore {
	val, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	store, _ := val.(port.SessionStore)
	return store
}
