package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Drawing represents the database model. Scene holds the merged canonical
// shapes as JSON; edit history is never persisted.
type Drawing struct {
	UUID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"uuid"`
	Name         string         `gorm:"not null" json:"name"`
	UserID       string         `gorm:"not null;index" json:"user_id"`
	Scene        datatypes.JSON `json:"scene"`
	CanvasWidth  float64        `gorm:"default:500" json:"canvas_width"`
	CanvasHeight float64        `gorm:"default:500" json:"canvas_height"`
	ShapeCount   int            `json:"shape_count"`
	Thumbnail    string         `json:"thumbnail"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
