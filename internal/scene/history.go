package scene

// History is a branching undo/redo stack of scene states. State i holds the
// layers that were active after the i-th accepted edit; index selects the
// active state. A push after an undo discards the redo-able future.
//
// History is not safe for concurrent use; the owning session serializes access.
type History struct {
	states [][]Layer
	index  int
}

// NewHistory returns the history of an empty drawing: one empty state.
func NewHistory() *History {
	return &History{states: [][]Layer{{}}}
}

// NewHistoryFrom seeds a history whose only state holds layer, as used when a
// saved drawing is reopened.
func NewHistoryFrom(layer Layer) *History {
	if len(layer) == 0 {
		return NewHistory()
	}
	return &History{states: [][]Layer{{cloneLayer(layer)}}}
}

// Push truncates everything after the current index and appends a state made
// of the current layers plus layer.
func (h *History) Push(layer Layer) {
	current := h.states[h.index]
	next := make([]Layer, len(current), len(current)+1)
	copy(next, current)
	next = append(next, cloneLayer(layer))
	h.appendState(next)
}

// Clear appends an empty state; earlier states stay reachable through Undo.
func (h *History) Clear() {
	h.appendState([]Layer{})
}

func (h *History) appendState(state []Layer) {
	h.states = append(h.states[:h.index+1:h.index+1], state)
	h.index = len(h.states) - 1
}

// Undo moves one state back. It reports whether the index moved.
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	h.index--
	return true
}

// Redo moves one state forward into previously pushed states.
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.index++
	return true
}

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index < len(h.states)-1 }

func (h *History) Index() int { return h.index }

func (h *History) Len() int { return len(h.states) }

// Pristine reports whether the history still holds only the empty initial state.
func (h *History) Pristine() bool {
	return len(h.states) == 1 && len(h.states[0]) == 0
}

// Layers returns the layers of the active state.
func (h *History) Layers() []Layer {
	current := h.states[h.index]
	out := make([]Layer, len(current))
	copy(out, current)
	return out
}

// MergedScene concatenates, in push order, every layer of the active state.
func (h *History) MergedScene() []Shape {
	n := 0
	for _, l := range h.states[h.index] {
		n += len(l)
	}
	merged := make([]Shape, 0, n)
	for _, l := range h.states[h.index] {
		merged = append(merged, l...)
	}
	return merged
}

func cloneLayer(l Layer) Layer {
	out := make(Layer, len(l))
	copy(out, l)
	return out
}
