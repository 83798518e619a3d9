package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/volumio-labs/volumio-api/internal/logger"
)

const (
	sessionName   = "volumio_session"
	sessionMaxAge = 24 * 60 * 60
)

// ContextSessionID is the gin context key holding the session ID.
const ContextSessionID = "session_id"

// NewSessionStore builds the cookie store used to scope interaction history.
func NewSessionStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
	}
	return store
}

// Session assigns each browser a stable session ID cookie. Handlers read the
// ID from the context to look up per-session history.
func Session(store *sessions.CookieStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.Get(c.Request, sessionName)
		if err != nil {
			// Tampered or stale cookie: fall through with a fresh session.
			logger.Warn("session cookie rejected, issuing a new one", logger.Fields{
				"request_id": c.GetString("request_id"),
			})
		}

		sid, ok := session.Values["sid"].(string)
		if !ok || sid == "" {
			sid = uuid.New().String()
			session.Values["sid"] = sid
			if err := session.Save(c.Request, c.Writer); err != nil {
				logger.Error("failed to save session cookie", err, logger.Fields{
					"request_id": c.GetString("request_id"),
				})
			}
		}

		c.Set(ContextSessionID, sid)
		c.Next()
	}
}
