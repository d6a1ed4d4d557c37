package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"drawing-bot-backend/internal/scene"

	"github.com/google/uuid"
)

// Manager keeps the open drawings. Each drawing is owned by exactly one
// Session; drawings never share state, so the map lock is the only lock
// spanning drawings.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	generator Generator
	store     Store
	publisher Publisher
	opts      Options
}

func NewManager(gen Generator, store Store, pub Publisher, opts Options) *Manager {
	if opts.Canvas.Width <= 0 || opts.Canvas.Height <= 0 {
		opts.Canvas = DefaultCanvas
	}
	return &Manager{
		sessions:  make(map[uuid.UUID]*Session),
		generator: gen,
		store:     store,
		publisher: pub,
		opts:      opts,
	}
}

// Create opens a new, empty drawing.
func (m *Manager) Create(name string, owner Identity) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Drawing #%d", len(m.sessions)+1)
	}
	s := New(name, owner, m.generator, m.store, m.publisher, m.opts)
	m.sessions[s.ID()] = s
	return s
}

// Get returns an open drawing.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Open returns the drawing from memory, loading it from the store if needed.
// A loaded drawing starts with a single history state holding its saved scene.
func (m *Manager) Open(id uuid.UUID) (*Session, error) {
	if s, err := m.Get(id); err == nil {
		return s, nil
	}
	if m.store == nil {
		return nil, ErrNotFound
	}

	stored, err := m.store.LoadScene(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another request may have opened it meanwhile
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}

	canvas := stored.Canvas
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = m.opts.Canvas
	}
	s := newSession(Drawing{
		ID:        stored.ID,
		Name:      stored.Name,
		OwnerID:   stored.OwnerID,
		History:   scene.NewHistoryFrom(stored.Shapes),
		CreatedAt: stored.CreatedAt,
		UpdatedAt: stored.UpdatedAt,
	}, canvas, m.generator, m.store, m.publisher, m.opts)
	m.sessions[id] = s
	return s, nil
}

// List returns the caller's saved drawings followed by open, unsaved ones.
// Anonymous callers get an empty list; their drawings are reachable by id only.
func (m *Manager) List(owner Identity) ([]Summary, error) {
	if owner.IsAnonymous() {
		return []Summary{}, nil
	}

	var out []Summary
	seen := make(map[uuid.UUID]bool)

	if m.store != nil {
		saved, err := m.store.ListByOwner(owner.UserID)
		if err != nil {
			return nil, &PersistenceError{Op: "list", Err: err}
		}
		for _, s := range saved {
			seen[s.ID] = true
		}
		out = append(out, saved...)
	}

	m.mu.RLock()
	var open []Summary
	for id, s := range m.sessions {
		if seen[id] || s.OwnerID() != owner.UserID {
			continue
		}
		snap := s.Snapshot()
		open = append(open, Summary{ID: id, Name: snap.Name, UpdatedAt: snap.UpdatedAt})
	}
	m.mu.RUnlock()

	sort.Slice(open, func(i, j int) bool { return open[i].UpdatedAt.After(open[j].UpdatedAt) })
	return append(out, open...), nil
}

// Close abandons any in-flight request and forgets the drawing.
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.Cancel()
	return nil
}

// Delete removes a drawing from the store and from memory. Only the owner
// may delete an owned drawing; an unowned one can be deleted by anyone who
// holds its id.
func (m *Manager) Delete(id uuid.UUID, caller Identity) error {
	s, err := m.Open(id)
	if err != nil {
		return err
	}
	owner := s.OwnerID()
	if owner != "" && owner != caller.UserID {
		return ErrForbidden
	}

	if owner != "" && m.store != nil {
		if err := m.store.DeleteDrawing(id); err != nil {
			return &PersistenceError{Op: "delete", Err: err}
		}
	}
	if err := m.Close(id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Len is the number of open drawings.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
