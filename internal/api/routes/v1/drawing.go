package v1

import (
	"drawing-bot-backend/internal/drawbot/workflow"
	"drawing-bot-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func registerDrawing(r fiber.Router, deps Dependencies) {
	drawingHandler := handlers.NewDrawingHandler(deps.Manager, deps.Images, deps.Thumbnails)
	drawWorkflow := workflow.NewWorkflow(deps.Manager)

	r.Get("/drawings", drawingHandler.ListDrawings)
	r.Post("/drawings", drawingHandler.CreateDrawing)
	r.Get("/drawings/:drawingId", drawingHandler.GetDrawing)
	r.Patch("/drawings/:drawingId", drawingHandler.RenameDrawing)
	r.Delete("/drawings/:drawingId", drawingHandler.DeleteDrawing)
	r.Post("/drawings/:drawingId/save", drawingHandler.SaveDrawing)
	r.Get("/drawings/:drawingId/export.png", drawingHandler.ExportPNG)
	r.Get("/drawings/:drawingId/export.pdf", drawingHandler.ExportPDF)

	r.Post("/drawings/:drawingId/generate", drawWorkflow.TriggerDrawWorkflow)
	r.Post("/drawings/:drawingId/undo", drawWorkflow.Undo)
	r.Post("/drawings/:drawingId/redo", drawWorkflow.Redo)
	r.Post("/drawings/:drawingId/clear", drawWorkflow.Clear)
	r.Post("/drawings/:drawingId/cancel", drawWorkflow.Cancel)
}
