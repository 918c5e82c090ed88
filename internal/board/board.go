// Package board holds the authoritative state of a shared canvas: who is
// present, which strokes are committed, and which strokes are still being
// drawn. All types here are transport-agnostic; the relay layer owns the
// wire protocol.
package board

import "time"

// ConnID is a stable per-connection integer handle assigned by the server.
// It is independent of any transport-level identifier and is never reused
// within a process lifetime.
type ConnID int64

// ParticipantID is an opaque server-assigned identifier, unique for the
// lifetime of the process and never reused.
type ParticipantID string

// Tool selects how a stroke is rendered.
type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
)

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	return t == ToolBrush || t == ToolEraser
}

// Segment is one sampled point of a stroke. Immutable once appended.
type Segment struct {
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	CapturedAt time.Time `json:"capturedAt"`
}

// Stroke is a completed drawing action. A Stroke is created only by
// promoting an active stroke and is immutable once committed to history.
type Stroke struct {
	Owner    ParticipantID `json:"ownerId"`
	Color    string        `json:"color"`
	Width    float64       `json:"width"`
	Tool     Tool          `json:"tool"`
	Segments []Segment     `json:"segments"`
}

// Participant is one connected user session within a space.
type Participant struct {
	ID       ParticipantID `json:"id"`
	Conn     ConnID        `json:"-"`
	Color    string        `json:"color"`
	Name     string        `json:"name"`
	JoinedAt time.Time     `json:"joinedAt"`
}
