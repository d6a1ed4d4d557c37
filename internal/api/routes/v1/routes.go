package v1

import (
	"drawing-bot-backend/internal/handlers"
	"drawing-bot-backend/internal/libraries"
	"drawing-bot-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the long-lived services the v1 handlers share.
type Dependencies struct {
	Manager    *session.Manager
	Hub        *libraries.Hub
	Images     libraries.ImageStore
	Thumbnails handlers.ThumbnailSetter
	Users      handlers.UserStore
}

func RegisterRoutes(r fiber.Router, deps Dependencies) {
	registerHealth(r)
	registerDrawing(r, deps)
	registerUser(r, deps)
	registerSocket(r, deps)
}
