package workflow

import (
	"drawing-bot-backend/internal/handlers"
	"drawing-bot-backend/internal/scene"
	"drawing-bot-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Workflow exposes the prompt-to-layer flow and history navigation.
type Workflow struct {
	manager *session.Manager
}

func NewWorkflow(manager *session.Manager) *Workflow {
	return &Workflow{manager: manager}
}

func (w *Workflow) TriggerDrawWorkflow(c *fiber.Ctx) error {
	var dto struct {
		Prompt       string  `json:"prompt"`
		CanvasWidth  float64 `json:"canvasWidth"`
		CanvasHeight float64 `json:"canvasHeight"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	s, err := handlers.OpenDrawing(c, w.manager)
	if s == nil {
		return err
	}

	snap, err := s.Submit(c.UserContext(), dto.Prompt, scene.Canvas{Width: dto.CanvasWidth, Height: dto.CanvasHeight})
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"drawing": snap,
	})
}

func (w *Workflow) Undo(c *fiber.Ctx) error {
	return w.navigate(c, (*session.Session).Undo)
}

func (w *Workflow) Redo(c *fiber.Ctx) error {
	return w.navigate(c, (*session.Session).Redo)
}

func (w *Workflow) Clear(c *fiber.Ctx) error {
	return w.navigate(c, (*session.Session).Clear)
}

func (w *Workflow) Cancel(c *fiber.Ctx) error {
	return w.navigate(c, (*session.Session).Cancel)
}

func (w *Workflow) navigate(c *fiber.Ctx, op func(*session.Session) session.Snapshot) error {
	s, err := handlers.OpenDrawing(c, w.manager)
	if s == nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"drawing": op(s),
	})
}
