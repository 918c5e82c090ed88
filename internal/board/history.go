package board

import "sync"

// DefaultHistoryCap bounds the stroke log when no explicit cap is configured.
const DefaultHistoryCap = 1000

// History is the ordered, bounded log of committed strokes. Order is commit
// order. When the log exceeds its cap the oldest stroke is evicted, never
// the newest. The relay actor is the only writer; the export handlers read
// concurrently, hence the lock.
type History struct {
	mu      sync.RWMutex
	strokes []Stroke
	limit   int
}

// NewHistory creates a history bounded to the given cap. A cap of zero or
// less falls back to DefaultHistoryCap.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryCap
	}
	return &History{limit: limit}
}

// Commit appends a completed stroke. Strokes with no segments are rejected
// as a no-op: an empty stroke has nothing to render and must never enter
// history.
func (h *History) Commit(s Stroke) {
	if len(s.Segments) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.strokes = append(h.strokes, s)
	if len(h.strokes) > h.limit {
		h.strokes = h.strokes[1:]
	}
}

// UndoLast removes and returns the most recently committed stroke. The undo
// is global: it removes the chronologically last commit regardless of owner.
// ok is false when there is nothing to undo.
func (h *History) UndoLast() (s Stroke, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.strokes) == 0 {
		return Stroke{}, false
	}
	s = h.strokes[len(h.strokes)-1]
	h.strokes = h.strokes[:len(h.strokes)-1]
	return s, true
}

// Clear empties the log unconditionally.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.strokes = nil
}

// Snapshot returns a copy of the full ordered log, ready to hydrate a new
// joiner or to resynchronize every client after undo/clear.
func (h *History) Snapshot() []Stroke {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Stroke, len(h.strokes))
	copy(out, h.strokes)
	return out
}

// Len returns the current log length.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.strokes)
}
