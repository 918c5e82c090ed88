package board

import "sync"

// ActiveStrokes tracks the in-progress stroke of each connection: everything
// drawn between a stroke-begin and the matching stroke-end (or the
// connection going away). At most one stroke is open per connection; a
// second begin overwrites the first.
type ActiveStrokes struct {
	mu   sync.Mutex
	open map[ConnID]*Stroke
}

// NewActiveStrokes creates an empty tracker.
func NewActiveStrokes() *ActiveStrokes {
	return &ActiveStrokes{open: make(map[ConnID]*Stroke)}
}

// Begin opens an active stroke for the connection, discarding any stroke
// already open for it.
func (a *ActiveStrokes) Begin(conn ConnID, owner ParticipantID, color string, width float64, tool Tool, first Segment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.open[conn] = &Stroke{
		Owner:    owner,
		Color:    color,
		Width:    width,
		Tool:     tool,
		Segments: []Segment{first},
	}
}

// Append adds a segment to the connection's open stroke. Points arriving
// before a begin or after an end are dropped; ok reports whether the
// segment was buffered.
func (a *ActiveStrokes) Append(conn ConnID, seg Segment) (ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.open[conn]
	if !ok {
		return false
	}
	s.Segments = append(s.Segments, seg)
	return true
}

// End closes the connection's open stroke and returns it promoted to an
// immutable Stroke, ready for commit. ok is false when no stroke was open.
func (a *ActiveStrokes) End(conn ConnID) (Stroke, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.open[conn]
	if !ok {
		return Stroke{}, false
	}
	delete(a.open, conn)
	return *s, true
}

// Abandon is End for the abnormal-disconnect path. The caller decides what
// to do with the partial stroke; policy is to commit it when it has at
// least one segment, so a disconnect mid-stroke still preserves what was
// drawn.
func (a *ActiveStrokes) Abandon(conn ConnID) (Stroke, bool) {
	return a.End(conn)
}

// ClearAll drops every open stroke without returning them. Used when the
// whole history is reset so that a later stroke-end cannot resurrect a
// pre-reset stroke.
func (a *ActiveStrokes) ClearAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.open = make(map[ConnID]*Stroke)
}

// Open reports how many strokes are currently in progress.
func (a *ActiveStrokes) Open() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.open)
}
