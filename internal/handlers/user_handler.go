package handlers

import (
	"log"

	"drawing-bot-backend/internal/models"
	"drawing-bot-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

// UserStore records signed-in callers.
type UserStore interface {
	EnsureUser(owner session.Identity) (*models.User, error)
}

type UserHandler struct {
	users UserStore
}

func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// GetCurrentUser returns the caller's user record, registering them on
// first call.
func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	identity := CurrentIdentity(c)
	if identity.IsAnonymous() {
		return RespondError(c, session.ErrIdentityRequired)
	}

	user, err := h.users.EnsureUser(identity)
	if err != nil {
		log.Println(err, "Error loading user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load user",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": user,
	})
}
