package v1

import (
	"drawing-bot-backend/internal/libraries"
	"drawing-bot-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func registerSocket(r fiber.Router, deps Dependencies) {
	if deps.Hub == nil {
		return
	}
	lookup := func(id uuid.UUID) (session.Snapshot, error) {
		s, err := deps.Manager.Open(id)
		if err != nil {
			return session.Snapshot{}, err
		}
		return s.Snapshot(), nil
	}
	r.Get("/ws", libraries.WebSocketHandler(deps.Hub, lookup))
}
