package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	"github.com/summarizetube/summarizetube-backend/internal/services"
)

// SessionCookie names the cookie that carries the UI session ID.
const SessionCookie = "summarizetube_session"

const sessionLocal = "session"

// UISession resolves the browser's conversation session from its cookie,
// creating a new one on first visit or after the old session expired. The
// cookie is re-issued on every request so it slides with the store's idle
// TTL.
func UISession(store *services.SessionStore, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var session *conversation.Session
		if id := c.Cookies(SessionCookie); id != "" {
			if s, err := store.Get(id); err == nil {
				session = s
			}
		}
		if session == nil {
			session = store.Create()
		}

		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    session.ID(),
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(sessionLocal, session)
		return c.Next()
	}
}

// GetSession retrieves the session stored by UISession
func GetSession(c *fiber.Ctx) *conversation.Session {
	if s, ok := c.Locals(sessionLocal).(*conversation.Session); ok {
		return s
	}
	return nil
}
