package session

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	CookieName = "sessionId"
	MaxAge     = 7 * 24 * time.Hour

	localsKey = "session_id"
)

// ErrUnauthorized is returned for session-scoped routes called without a
// session cookie.
var ErrUnauthorized = fiber.NewError(fiber.StatusUnauthorized, "Unauthorized.")

// cookie copies the value out of the request buffer, which fasthttp reuses
// once the handler returns.
func cookie(c *fiber.Ctx) string {
	return strings.Clone(strings.TrimSpace(c.Cookies(CookieName)))
}

// Resolve returns the caller's session id from the cookie, or mints a new
// one and reports isNew. It never writes the cookie itself.
func Resolve(c *fiber.Ctx) (id string, isNew bool) {
	if id := cookie(c); id != "" {
		return id, false
	}
	return uuid.NewString(), true
}

// SetCookie tells the client to keep id as its session for MaxAge.
func SetCookie(c *fiber.Ctx, id string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(MaxAge / time.Second),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Require rejects requests that do not carry a session cookie.
func Require() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := cookie(c)
		if id == "" {
			return ErrUnauthorized
		}
		c.Locals(localsKey, id)
		return c.Next()
	}
}

// FromCtx returns the session id stored by Require.
func FromCtx(c *fiber.Ctx) (string, bool) {
	if v, ok := c.Locals(localsKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
