package v1

import (
	"drawing-bot-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func registerUser(r fiber.Router, deps Dependencies) {
	if deps.Users == nil {
		return
	}
	userHandler := handlers.NewUserHandler(deps.Users)

	r.Get("/users/me", userHandler.GetCurrentUser)
}
