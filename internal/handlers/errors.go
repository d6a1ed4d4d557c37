package handlers

import (
	"errors"
	"log"

	llmHandlers "drawing-bot-backend/internal/llm_handlers"
	"drawing-bot-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RespondError maps domain errors to a status and a fiber.Map body.
func RespondError(c *fiber.Ctx, err error) error {
	var (
		serviceErr     *llmHandlers.ServiceError
		persistenceErr *session.PersistenceError
	)

	status, message := fiber.StatusInternalServerError, "Something went wrong"
	switch {
	case errors.Is(err, session.ErrNotFound):
		status, message = fiber.StatusNotFound, "Drawing not found"
	case errors.Is(err, session.ErrEmptyPrompt):
		status, message = fiber.StatusBadRequest, "Prompt cannot be empty"
	case errors.Is(err, session.ErrCanvasTooLarge):
		status, message = fiber.StatusBadRequest, "Canvas size exceeds the allowed maximum"
	case errors.Is(err, session.ErrBusy):
		status, message = fiber.StatusConflict, "A drawing request is already in progress"
	case errors.Is(err, session.ErrStaleResponse):
		status, message = fiber.StatusConflict, "The request was cancelled"
	case errors.Is(err, session.ErrIdentityRequired):
		status, message = fiber.StatusUnauthorized, "Sign in to save drawings"
	case errors.Is(err, session.ErrForbidden):
		status, message = fiber.StatusForbidden, "You cannot change this drawing"
	case errors.As(err, &serviceErr):
		status, message = fiber.StatusBadGateway, "The drawing service failed, please try again"
	case errors.As(err, &persistenceErr):
		message = "Failed to " + persistenceErr.Op + " drawing"
	}

	if status >= fiber.StatusInternalServerError {
		log.Println(err, "request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// OpenDrawing resolves the :drawingId route param to an open session,
// loading it from the store when needed. A nil session means the error
// response has already been written.
func OpenDrawing(c *fiber.Ctx, manager *session.Manager) (*session.Session, error) {
	id, err := uuid.Parse(c.Params("drawingId"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid drawing ID",
		})
	}
	s, err := manager.Open(id)
	if err != nil {
		return nil, RespondError(c, err)
	}
	return s, nil
}
