package middleware

import (
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionIDKey is the key for storing the session id in fiber.Ctx locals.
const SessionIDKey = "sessionID"

// Session makes sure every request carries a session id. A missing or
// malformed cookie is replaced with a freshly issued ULID.
func Session(cfg config.SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(cfg.CookieName)
		if !util.IsValidULID(sessionID) {
			sessionID = util.NewULID()
			logger.Get().Debug("Issued new session", zap.String("sessionID", sessionID))
		}

		// Re-sent on every request so an active session slides forward.
		c.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    sessionID,
			Path:     "/",
			Expires:  time.Now().Add(cfg.TTL),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(SessionIDKey, sessionID)

		return c.Next()
	}
}

// SessionID returns the session id set by Session, or "".
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionIDKey).(string)
	return id
}
