package handlers

import (
	"bytes"
	"log"

	"drawing-bot-backend/internal/libraries"
	"drawing-bot-backend/internal/render"
	"drawing-bot-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ThumbnailSetter records where a saved drawing's preview lives.
type ThumbnailSetter interface {
	SetThumbnail(drawingID uuid.UUID, url string) error
}

type DrawingHandler struct {
	manager    *session.Manager
	images     libraries.ImageStore
	thumbnails ThumbnailSetter
}

func NewDrawingHandler(manager *session.Manager, images libraries.ImageStore, thumbnails ThumbnailSetter) *DrawingHandler {
	return &DrawingHandler{
		manager:    manager,
		images:     images,
		thumbnails: thumbnails,
	}
}

func (h *DrawingHandler) CreateDrawing(c *fiber.Ctx) error {
	var dto struct {
		Name string `json:"name"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&dto); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	s := h.manager.Create(dto.Name, CurrentIdentity(c))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"drawing": s.Snapshot(),
	})
}

func (h *DrawingHandler) ListDrawings(c *fiber.Ctx) error {
	drawings, err := h.manager.List(CurrentIdentity(c))
	if err != nil {
		return RespondError(c, err)
	}
	if drawings == nil {
		drawings = []session.Summary{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"drawings": drawings,
	})
}

func (h *DrawingHandler) GetDrawing(c *fiber.Ctx) error {
	s, err := h.open(c)
	if s == nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"drawing": s.Snapshot(),
	})
}

func (h *DrawingHandler) RenameDrawing(c *fiber.Ctx) error {
	var dto struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	s, err := h.open(c)
	if s == nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"drawing": s.Rename(dto.Name),
	})
}

// DeleteDrawing removes a drawing for its owner, abandoning any in-flight
// generation for it.
func (h *DrawingHandler) DeleteDrawing(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("drawingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid drawing ID",
		})
	}

	if err := h.manager.Delete(id, CurrentIdentity(c)); err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Drawing deleted successfully",
	})
}

// SaveDrawing persists the merged scene for the signed-in caller and then
// stores a PNG thumbnail. A thumbnail failure does not fail the save.
func (h *DrawingHandler) SaveDrawing(c *fiber.Ctx) error {
	s, err := h.open(c)
	if s == nil {
		return err
	}

	if err := s.Save(CurrentIdentity(c)); err != nil {
		return RespondError(c, err)
	}

	snap := s.Snapshot()
	thumbnail := h.storeThumbnail(c, snap)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   "Drawing saved successfully",
		"drawing":   snap,
		"thumbnail": thumbnail,
	})
}

func (h *DrawingHandler) storeThumbnail(c *fiber.Ctx, snap session.Snapshot) string {
	if h.images == nil {
		return ""
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, snap.Shapes, snap.Canvas); err != nil {
		log.Println(err, "Error rendering thumbnail")
		return ""
	}

	url, err := h.images.SaveImage(c.UserContext(), snap.DrawingID.String()+".png", buf.Bytes(), "image/png")
	if err != nil {
		log.Println(err, "Error saving thumbnail")
		return ""
	}
	if h.thumbnails != nil {
		if err := h.thumbnails.SetThumbnail(snap.DrawingID, url); err != nil {
			log.Println(err, "Error recording thumbnail")
		}
	}
	log.Printf("Thumbnail saved successfully: %s", url)
	return url
}

func (h *DrawingHandler) ExportPNG(c *fiber.Ctx) error {
	s, err := h.open(c)
	if s == nil {
		return err
	}
	snap := s.Snapshot()

	var buf bytes.Buffer
	if err := render.PNG(&buf, snap.Shapes, snap.Canvas); err != nil {
		return RespondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *DrawingHandler) ExportPDF(c *fiber.Ctx) error {
	s, err := h.open(c)
	if s == nil {
		return err
	}
	snap := s.Snapshot()

	var buf bytes.Buffer
	if err := render.PDF(&buf, snap.Shapes, snap.Canvas); err != nil {
		return RespondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+snap.DrawingID.String()+`.pdf"`)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *DrawingHandler) open(c *fiber.Ctx) (*session.Session, error) {
	return OpenDrawing(c, h.manager)
}
