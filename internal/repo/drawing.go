package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"drawing-bot-backend/internal/models"
	"drawing-bot-backend/internal/scene"
	"drawing-bot-backend/internal/session"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DrawingRepo stores merged scenes. It implements session.Store.
type DrawingRepo struct {
	db *gorm.DB
}

type DrawingRepoInterface interface {
	session.Store
	SetThumbnail(drawingID uuid.UUID, url string) error
}

func NewDrawingRepository(db *gorm.DB) DrawingRepoInterface {
	return &DrawingRepo{db: db}
}

// Save upserts the owner and the drawing in one transaction, keeping the
// CreatedAt of the first save.
func (r *DrawingRepo) Save(drawingID uuid.UUID, name string, shapes []scene.Shape, canvas scene.Canvas, owner session.Identity) error {
	data, err := encodeScene(shapes)
	if err != nil {
		return err
	}

	now := time.Now()
	drawing := &models.Drawing{
		UUID:         drawingID,
		Name:         name,
		UserID:       owner.UserID,
		Scene:        data,
		CanvasWidth:  canvas.Width,
		CanvasHeight: canvas.Height,
		ShapeCount:   len(shapes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ensureUser(tx, owner); err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}

		var existing models.Drawing
		result := tx.Where("uuid = ?", drawingID).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return tx.Create(drawing).Error
		} else if result.Error != nil {
			return result.Error
		}

		drawing.CreatedAt = existing.CreatedAt
		// explicit columns so that an emptied scene (zero shape count) is written too
		return tx.Model(&existing).
			Select("name", "user_id", "scene", "canvas_width", "canvas_height", "shape_count", "updated_at").
			Updates(drawing).Error
	})
}

// ListByOwner returns the owner's drawings, most recently updated first.
func (r *DrawingRepo) ListByOwner(ownerID string) ([]session.Summary, error) {
	var drawings []models.Drawing
	err := r.db.Model(&models.Drawing{}).
		Select("uuid", "name", "updated_at").
		Where("user_id = ?", ownerID).
		Order("updated_at desc").
		Find(&drawings).Error
	if err != nil {
		return nil, err
	}

	out := make([]session.Summary, 0, len(drawings))
	for _, d := range drawings {
		out = append(out, session.Summary{ID: d.UUID, Name: d.Name, UpdatedAt: d.UpdatedAt})
	}
	return out, nil
}

func (r *DrawingRepo) LoadScene(drawingID uuid.UUID) (*session.Stored, error) {
	var d models.Drawing
	err := r.db.Where("uuid = ?", drawingID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toStored(d)
}

func (r *DrawingRepo) SetThumbnail(drawingID uuid.UUID, url string) error {
	return r.db.Model(&models.Drawing{}).
		Where("uuid = ?", drawingID).
		Update("thumbnail", url).Error
}

func (r *DrawingRepo) DeleteDrawing(drawingID uuid.UUID) error {
	return r.db.Where("uuid = ?", drawingID).Delete(&models.Drawing{}).Error
}

func encodeScene(shapes []scene.Shape) (datatypes.JSON, error) {
	if shapes == nil {
		shapes = []scene.Shape{}
	}
	bytes, err := json.Marshal(shapes)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return datatypes.JSON(bytes), nil
}

func toStored(d models.Drawing) (*session.Stored, error) {
	var shapes []scene.Shape
	if len(d.Scene) > 0 {
		if err := json.Unmarshal(d.Scene, &shapes); err != nil {
			return nil, fmt.Errorf("decode scene of %s: %w", d.UUID, err)
		}
	}
	return &session.Stored{
		ID:        d.UUID,
		Name:      d.Name,
		OwnerID:   d.UserID,
		Shapes:    shapes,
		Canvas:    scene.Canvas{Width: d.CanvasWidth, Height: d.CanvasHeight},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
