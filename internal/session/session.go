package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"drawing-bot-backend/internal/scene"

	"github.com/google/uuid"
)

var DefaultCanvas = scene.Canvas{Width: 500, Height: 500}

var DefaultMaxCanvas = scene.Canvas{Width: 4096, Height: 4096}

// Drawing is one named drawing with its edit history.
type Drawing struct {
	ID        uuid.UUID
	Name      string
	OwnerID   string
	History   *scene.History
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is the state handed to renderers and API clients.
type Snapshot struct {
	DrawingID     uuid.UUID     `json:"drawingId"`
	Name          string        `json:"name"`
	Shapes        []scene.Shape `json:"shapes"`
	Canvas        scene.Canvas  `json:"canvas"`
	HistoryIndex  int           `json:"historyIndex"`
	HistoryLength int           `json:"historyLength"`
	LayerCount    int           `json:"layerCount"`
	CanUndo       bool          `json:"canUndo"`
	CanRedo       bool          `json:"canRedo"`
	Busy          bool          `json:"busy"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type Options struct {
	Canvas scene.Canvas
	// MaxCanvas bounds any canvas a client may request. Zero means DefaultMaxCanvas.
	MaxCanvas scene.Canvas
	// Timeout bounds one generation call. Zero means no extra bound.
	Timeout time.Duration
}

// Session is the single owner of a Drawing. Submissions are serialized by a
// busy flag; responses of abandoned submissions are dropped using a sequence
// token. Undo, redo and clear never wait on the generation service.
type Session struct {
	mu        sync.Mutex
	drawing   Drawing
	canvas    scene.Canvas
	generator Generator
	publisher Publisher
	store     Store
	timeout   time.Duration
	maxCanvas scene.Canvas

	busy   bool
	seq    uint64
	cancel context.CancelFunc

	now func() time.Time
}

func newSession(d Drawing, canvas scene.Canvas, gen Generator, store Store, pub Publisher, opts Options) *Session {
	if pub == nil {
		pub = nopPublisher{}
	}
	maxCanvas := opts.MaxCanvas
	if maxCanvas.Width <= 0 || maxCanvas.Height <= 0 {
		maxCanvas = DefaultMaxCanvas
	}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = DefaultCanvas
	}
	canvas = clampCanvas(canvas, maxCanvas)
	if d.History == nil {
		d.History = scene.NewHistory()
	}
	return &Session{
		drawing:   d,
		canvas:    canvas,
		generator: gen,
		publisher: pub,
		store:     store,
		timeout:   opts.Timeout,
		maxCanvas: maxCanvas,
		now:       time.Now,
	}
}

// New creates a session for an empty drawing.
func New(name string, owner Identity, gen Generator, store Store, pub Publisher, opts Options) *Session {
	now := time.Now()
	return newSession(Drawing{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   owner.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}, opts.Canvas, gen, store, pub, opts)
}

func clampCanvas(c, max scene.Canvas) scene.Canvas {
	if c.Width > max.Width {
		c.Width = max.Width
	}
	if c.Height > max.Height {
		c.Height = max.Height
	}
	return c
}

func (s *Session) ID() uuid.UUID {
	return s.drawing.ID
}

// Submit generates a layer for prompt, fits it to the drawing's canvas and
// pushes it. A drawing takes canvas from its first submission; later
// requests reuse that canvas so every layer shares one coordinate space.
// A zero canvas keeps the current one. On any failure the history is left
// exactly as it was.
func (s *Session) Submit(ctx context.Context, prompt string, canvas scene.Canvas) (Snapshot, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return s.Snapshot(), ErrEmptyPrompt
	}
	if !(canvas.Width <= s.maxCanvas.Width && canvas.Height <= s.maxCanvas.Height) {
		return s.Snapshot(), ErrCanvasTooLarge
	}

	ctx, token, err := s.begin(ctx)
	if err != nil {
		return s.Snapshot(), err
	}

	descriptors, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		if s.finish(token) {
			return s.Snapshot(), err
		}
		log.Printf("drawing %s: %v (request %d failed after being abandoned: %v)", s.drawing.ID, ErrStaleResponse, token, err)
		return s.Snapshot(), ErrStaleResponse
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.seq {
		log.Printf("drawing %s: %v (request %d, current %d)", s.drawing.ID, ErrStaleResponse, token, s.seq)
		return s.snapshotLocked(), ErrStaleResponse
	}
	s.release()

	if canvas.Width > 0 && canvas.Height > 0 && s.drawing.History.Pristine() {
		s.canvas = canvas
	}
	shapes := scene.Fit(descriptors, s.canvas)
	s.drawing.History.Push(shapes)
	return s.changedLocked(), nil
}

// begin takes the busy flag and a fresh sequence token.
func (s *Session) begin(parent context.Context) (context.Context, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return nil, 0, ErrBusy
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	s.busy = true
	s.seq++
	s.cancel = cancel
	return ctx, s.seq, nil
}

// finish releases the busy flag if token is still current and reports
// whether it was.
func (s *Session) finish(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	s.release()
	return true
}

func (s *Session) release() {
	s.busy = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Cancel abandons the in-flight submission, if any. Its response, should it
// still arrive, is dropped.
func (s *Session) Cancel() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		s.seq++
		s.release()
	}
	return s.snapshotLocked()
}

func (s *Session) Undo() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.drawing.History.Undo() {
		return s.snapshotLocked()
	}
	return s.changedLocked()
}

func (s *Session) Redo() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.drawing.History.Redo() {
		return s.snapshotLocked()
	}
	return s.changedLocked()
}

func (s *Session) Clear() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawing.History.Clear()
	return s.changedLocked()
}

func (s *Session) Rename(name string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name = strings.TrimSpace(name); name != "" {
		s.drawing.Name = name
	}
	return s.changedLocked()
}

// Save persists the merged scene for owner. Anonymous callers must sign in
// first. The history is never modified, whatever the outcome.
func (s *Session) Save(owner Identity) error {
	if owner.IsAnonymous() {
		return ErrIdentityRequired
	}
	if s.store == nil {
		return &PersistenceError{Op: "save", Err: errors.New("no store configured")}
	}

	s.mu.Lock()
	id, name, canvas := s.drawing.ID, s.drawing.Name, s.canvas
	shapes := s.drawing.History.MergedScene()
	s.mu.Unlock()

	if err := s.store.Save(id, name, shapes, canvas, owner); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}

	s.mu.Lock()
	s.drawing.OwnerID = owner.UserID
	s.mu.Unlock()
	return nil
}

func (s *Session) OwnerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawing.OwnerID
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) changedLocked() Snapshot {
	s.drawing.UpdatedAt = s.now()
	snap := s.snapshotLocked()
	s.publisher.PublishScene(s.drawing.ID, snap)
	return snap
}

func (s *Session) snapshotLocked() Snapshot {
	h := s.drawing.History
	return Snapshot{
		DrawingID:     s.drawing.ID,
		Name:          s.drawing.Name,
		Shapes:        h.MergedScene(),
		Canvas:        s.canvas,
		HistoryIndex:  h.Index(),
		HistoryLength: h.Len(),
		LayerCount:    len(h.Layers()),
		CanUndo:       h.CanUndo(),
		CanRedo:       h.CanRedo(),
		Busy:          s.busy,
		UpdatedAt:     s.drawing.UpdatedAt,
	}
}
