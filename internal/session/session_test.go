package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"drawing-bot-backend/internal/scene"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu      sync.Mutex
	results map[string][]scene.RawDescriptor
	err     error
	// gate, when set, blocks Generate until a value is received or ctx ends
	gate    chan struct{}
	started chan string
	n       int
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) ([]scene.RawDescriptor, error) {
	if g.started != nil {
		g.started <- prompt
	}
	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	if g.err != nil {
		return nil, g.err
	}
	return g.results[prompt], nil
}

type recordingPublisher struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (p *recordingPublisher) PublishScene(_ uuid.UUID, snap Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, snap)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snaps)
}

type fakeStore struct {
	saved     map[uuid.UUID]Stored
	saveErr   error
	deleteErr error
	calls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[uuid.UUID]Stored)}
}

func (f *fakeStore) Save(id uuid.UUID, name string, shapes []scene.Shape, canvas scene.Canvas, owner Identity) error {
	f.calls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[id] = Stored{ID: id, Name: name, OwnerID: owner.UserID, Shapes: shapes, Canvas: canvas, UpdatedAt: time.Now()}
	return nil
}

func (f *fakeStore) ListByOwner(ownerID string) ([]Summary, error) {
	var out []Summary
	for _, d := range f.saved {
		if d.OwnerID == ownerID {
			out = append(out, Summary{ID: d.ID, Name: d.Name, UpdatedAt: d.UpdatedAt})
		}
	}
	return out, nil
}

func (f *fakeStore) LoadScene(id uuid.UUID) (*Stored, error) {
	d, ok := f.saved[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (f *fakeStore) DeleteDrawing(id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.saved, id)
	return nil
}

func circles(colors ...string) []scene.RawDescriptor {
	out := make([]scene.RawDescriptor, 0, len(colors))
	for i, c := range colors {
		out = append(out, scene.RawDescriptor{"shape": "circle", "x": float64(i * 10), "y": 0.0, "radius": 5.0, "color": c})
	}
	return out
}

func colors(shapes []scene.Shape) []string {
	out := make([]string, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, s.Color)
	}
	return out
}

func newTestSession(gen Generator, store Store, pub Publisher) *Session {
	return New("test", Anonymous, gen, store, pub, Options{Canvas: DefaultCanvas})
}

func TestSubmitPushesFittedLayer(t *testing.T) {
	gen := &fakeGenerator{results: map[string][]scene.RawDescriptor{
		"sun":   circles("yellow"),
		"trees": circles("green", "green"),
	}}
	pub := &recordingPublisher{}
	s := newTestSession(gen, nil, pub)

	snap, err := s.Submit(context.Background(), "sun", scene.Canvas{})
	require.NoError(t, err)
	assert.Equal(t, []string{"yellow"}, colors(snap.Shapes))
	assert.Equal(t, DefaultCanvas, snap.Canvas)
	assert.InDelta(t, 250, snap.Shapes[0].CenterX, 1e-9)

	snap, err = s.Submit(context.Background(), "trees", scene.Canvas{Width: 800, Height: 600})
	require.NoError(t, err)
	assert.Equal(t, []string{"yellow", "green", "green"}, colors(snap.Shapes))
	assert.Equal(t, 2, snap.HistoryIndex)
	assert.Equal(t, 2, snap.LayerCount)
	assert.True(t, snap.CanUndo)
	assert.False(t, snap.Busy)
	assert.Equal(t, 2, pub.count())
}

func TestSubmitKeepsTheFirstCanvas(t *testing.T) {
	gen := &fakeGenerator{results: map[string][]scene.RawDescriptor{
		"sun":   circles("yellow"),
		"trees": circles("green", "green"),
	}}
	s := newTestSession(gen, nil, nil)

	snap, err := s.Submit(context.Background(), "sun", scene.Canvas{Width: 800, Height: 600})
	require.NoError(t, err)
	assert.Equal(t, scene.Canvas{Width: 800, Height: 600}, snap.Canvas)
	assert.InDelta(t, 400, snap.Shapes[0].CenterX, 1e-9)

	snap, err = s.Submit(context.Background(), "trees", scene.Canvas{Width: 300, Height: 300})
	require.NoError(t, err)
	assert.Equal(t, scene.Canvas{Width: 800, Height: 600}, snap.Canvas)
	for _, sh := range snap.Shapes {
		assert.LessOrEqual(t, sh.CenterX+sh.Radius, 800.0)
		assert.LessOrEqual(t, sh.CenterY+sh.Radius, 600.0)
	}

	// undo back to the empty state does not unlock the canvas either
	s.Undo()
	s.Undo()
	snap, err = s.Submit(context.Background(), "sun", scene.Canvas{Width: 300, Height: 300})
	require.NoError(t, err)
	assert.Equal(t, scene.Canvas{Width: 800, Height: 600}, snap.Canvas)
}

func TestSubmitRejectsOversizedCanvas(t *testing.T) {
	gen := &fakeGenerator{results: map[string][]scene.RawDescriptor{"sun": circles("yellow")}}
	s := New("big", Anonymous, gen, nil, nil, Options{MaxCanvas: scene.Canvas{Width: 1000, Height: 1000}})

	for _, c := range []scene.Canvas{
		{Width: 1001, Height: 10},
		{Width: 10, Height: 1e12},
		{Width: math.Inf(1), Height: 10},
		{Width: math.NaN(), Height: 10},
	} {
		snap, err := s.Submit(context.Background(), "sun", c)
		assert.ErrorIs(t, err, ErrCanvasTooLarge, "canvas %+v", c)
		assert.Empty(t, snap.Shapes)
		assert.False(t, snap.Busy)
	}
	assert.Equal(t, 0, gen.calls(), "an oversized canvas never reaches the generator")

	snap, err := s.Submit(context.Background(), "sun", scene.Canvas{Width: 1000, Height: 1000})
	require.NoError(t, err)
	assert.Equal(t, scene.Canvas{Width: 1000, Height: 1000}, snap.Canvas)
}

func TestNewSessionClampsCanvasToMaximum(t *testing.T) {
	s := New("clamped", Anonymous, &fakeGenerator{}, nil, nil, Options{
		Canvas:    scene.Canvas{Width: 9000, Height: 300},
		MaxCanvas: scene.Canvas{Width: 2000, Height: 2000},
	})
	assert.Equal(t, scene.Canvas{Width: 2000, Height: 300}, s.Snapshot().Canvas)

	s = New("default", Anonymous, &fakeGenerator{}, nil, nil, Options{Canvas: scene.Canvas{Width: 1e9, Height: 1e9}})
	assert.Equal(t, DefaultMaxCanvas, s.Snapshot().Canvas)
}

func TestSubmitFailureLeavesHistoryUntouched(t *testing.T) {
	gen := &fakeGenerator{results: map[string][]scene.RawDescriptor{"sun": circles("yellow")}}
	s := newTestSession(gen, nil, nil)
	_, err := s.Submit(context.Background(), "sun", scene.Canvas{})
	require.NoError(t, err)
	before := s.Snapshot()

	gen.err = errors.New("service down")
	_, err = s.Submit(context.Background(), "moon", scene.Canvas{})
	require.EqualError(t, err, "service down")

	after := s.Snapshot()
	assert.Equal(t, before.Shapes, after.Shapes)
	assert.Equal(t, before.HistoryIndex, after.HistoryIndex)
	assert.Equal(t, before.HistoryLength, after.HistoryLength)
	assert.False(t, after.Busy, "a failed request releases the drawing")
}

func TestSubmitRejectsEmptyPrompt(t *testing.T) {
	s := newTestSession(&fakeGenerator{}, nil, nil)
	_, err := s.Submit(context.Background(), "   ", scene.Canvas{})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestSubmitWhileBusyIsRejected(t *testing.T) {
	gen := &fakeGenerator{
		results: map[string][]scene.RawDescriptor{"slow": circles("red"), "fast": circles("blue")},
		gate:    make(chan struct{}),
		started: make(chan string, 2),
	}
	s := newTestSession(gen, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "slow", scene.Canvas{})
		done <- err
	}()
	<-gen.started

	_, err := s.Submit(context.Background(), "fast", scene.Canvas{})
	assert.ErrorIs(t, err, ErrBusy)
	assert.True(t, s.Snapshot().Busy)

	close(gen.gate)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"red"}, colors(s.Snapshot().Shapes))
}

func TestAbandonedResponseIsDropped(t *testing.T) {
	gen := &lateGenerator{
		results: map[string][]scene.RawDescriptor{"old": circles("red"), "new": circles("blue")},
		slow:    "old",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newTestSession(gen, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "old", scene.Canvas{})
		done <- err
	}()
	<-gen.entered

	s.Cancel()
	snap, err := s.Submit(context.Background(), "new", scene.Canvas{})
	require.NoError(t, err)
	assert.Equal(t, []string{"blue"}, colors(snap.Shapes))

	close(gen.release)
	assert.ErrorIs(t, <-done, ErrStaleResponse)
	assert.Equal(t, []string{"blue"}, colors(s.Snapshot().Shapes), "stale layer never lands")
	assert.Equal(t, 2, s.Snapshot().HistoryLength)
}

// lateGenerator answers the slow prompt only after release, ignoring
// cancellation, so its response arrives after a newer one.
type lateGenerator struct {
	results map[string][]scene.RawDescriptor
	slow    string
	entered chan struct{}
	release chan struct{}
}

func (l *lateGenerator) Generate(_ context.Context, prompt string) ([]scene.RawDescriptor, error) {
	if prompt == l.slow {
		close(l.entered)
		<-l.release
	}
	return l.results[prompt], nil
}

func TestCancelAbortsContext(t *testing.T) {
	gen := &fakeGenerator{gate: make(chan struct{}), started: make(chan string, 1)}
	s := newTestSession(gen, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "anything", scene.Canvas{})
		done <- err
	}()
	<-gen.started

	snap := s.Cancel()
	assert.False(t, snap.Busy)
	assert.ErrorIs(t, <-done, ErrStaleResponse)
	assert.Equal(t, 1, s.Snapshot().HistoryLength)
}

func TestUndoRedoClear(t *testing.T) {
	gen := &fakeGenerator{results: map[string][]scene.RawDescriptor{"a": circles("red"), "b": circles("blue")}}
	pub := &recordingPublisher{}
	s := newTestSession(gen, nil, pub)
	ctx := context.Background()

	_, err := s.Submit(ctx, "a", scene.Canvas{})
	require.NoError(t, err)
	_, err = s.Submit(ctx, "b", scene.Canvas{})
	require.NoError(t, err)

	snap := s.Clear()
	assert.True(t, snap.CanUndo)
	assert.Empty(t, snap.Shapes)

	snap = s.Undo()
	assert.Equal(t, []string{"red", "blue"}, colors(snap.Shapes))
	snap = s.Redo()
	assert.Empty(t, snap.Shapes)

	// no-op redo does not publish
	published := pub.count()
	s.Redo()
	assert.Equal(t, published, pub.count())
}

func TestSave(t *testing.T) {
	gen := &fakeGenerator{results: map[string][]scene.RawDescriptor{"a": circles("red")}}
	store := newFakeStore()
	s := newTestSession(gen, store, nil)
	_, err := s.Submit(context.Background(), "a", scene.Canvas{})
	require.NoError(t, err)

	t.Run("anonymous", func(t *testing.T) {
		assert.ErrorIs(t, s.Save(Anonymous), ErrIdentityRequired)
		assert.Equal(t, 0, store.calls)
	})

	t.Run("store failure keeps state", func(t *testing.T) {
		store.saveErr = errors.New("db down")
		before := s.Snapshot()

		err := s.Save(Identity{UserID: "u1"})
		var perr *PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "save", perr.Op)
		assert.Equal(t, before.Shapes, s.Snapshot().Shapes)
		assert.Equal(t, before.HistoryLength, s.Snapshot().HistoryLength)
		store.saveErr = nil
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, s.Save(Identity{UserID: "u1", DisplayName: "Dana"}))
		saved := store.saved[s.ID()]
		assert.Equal(t, "test", saved.Name)
		assert.Equal(t, []string{"red"}, colors(saved.Shapes))
		assert.Equal(t, "u1", s.OwnerID())
	})
}
