package handlers

import (
	"strings"

	"drawing-bot-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"

	identityKey = "identity"
)

// Identify reads the caller from the identity provider's headers. Requests
// without a user id are anonymous.
func Identify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(identityKey, session.Identity{
			UserID:      strings.TrimSpace(c.Get(HeaderUserID)),
			DisplayName: strings.TrimSpace(c.Get(HeaderUserName)),
		})
		return c.Next()
	}
}

func CurrentIdentity(c *fiber.Ctx) session.Identity {
	if id, ok := c.Locals(identityKey).(session.Identity); ok {
		return id
	}
	return session.Anonymous
}
