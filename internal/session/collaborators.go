package session

import (
	"context"
	"time"

	"drawing-bot-backend/internal/scene"

	"github.com/google/uuid"
)

// Generator turns a free-text prompt into raw shape descriptors.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]scene.RawDescriptor, error)
}

// Publisher receives the merged scene after every change.
type Publisher interface {
	PublishScene(drawingID uuid.UUID, snap Snapshot)
}

// Summary is one entry of a user's drawing list.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store persists merged scenes.
type Store interface {
	Save(drawingID uuid.UUID, name string, shapes []scene.Shape, canvas scene.Canvas, owner Identity) error
	ListByOwner(ownerID string) ([]Summary, error)
	LoadScene(drawingID uuid.UUID) (*Stored, error)
	DeleteDrawing(drawingID uuid.UUID) error
}

// Stored is a drawing as read back from the store.
type Stored struct {
	ID        uuid.UUID
	Name      string
	OwnerID   string
	Shapes    []scene.Shape
	Canvas    scene.Canvas
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the caller as reported by the identity provider.
// An empty UserID means anonymous.
type Identity struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool { return i.UserID == "" }

type nopPublisher struct{}

func (nopPublisher) PublishScene(uuid.UUID, Snapshot) {}
