package board

import (
	"testing"
	"time"
)

func seg(x, y float64) Segment {
	return Segment{X: x, Y: y, CapturedAt: time.Now()}
}

func TestActiveStrokesLifecycle(t *testing.T) {
	a := NewActiveStrokes()

	a.Begin(1, "u1", "#ff0000", 4, ToolBrush, seg(1, 1))
	if !a.Append(1, seg(2, 2)) {
		t.Fatalf("Append() ok = false, want true")
	}
	if !a.Append(1, seg(3, 3)) {
		t.Fatalf("Append() ok = false, want true")
	}

	s, ok := a.End(1)
	if !ok {
		t.Fatalf("End() ok = false, want true")
	}
	if len(s.Segments) != 3 {
		t.Fatalf("len(Segments) = %d, want 3", len(s.Segments))
	}
	if s.Owner != "u1" || s.Color != "#ff0000" || s.Width != 4 || s.Tool != ToolBrush {
		t.Fatalf("promoted stroke fields = %+v", s)
	}

	// The stroke is closed; a second End finds nothing.
	if _, ok := a.End(1); ok {
		t.Fatalf("End() after End() ok = true, want false")
	}
}

func TestActiveStrokesAppendWithoutBegin(t *testing.T) {
	a := NewActiveStrokes()
	if a.Append(7, seg(0, 0)) {
		t.Fatalf("Append() with no open stroke ok = true, want false")
	}
	if _, ok := a.End(7); ok {
		t.Fatalf("End() with no open stroke ok = true, want false")
	}
	if got := a.Open(); got != 0 {
		t.Fatalf("Open() = %d, want 0", got)
	}
}

func TestActiveStrokesBeginOverwrites(t *testing.T) {
	a := NewActiveStrokes()
	a.Begin(1, "u1", "#000000", 2, ToolBrush, seg(0, 0))
	a.Append(1, seg(1, 1))

	// A second begin on the same connection abandons the first stroke.
	a.Begin(1, "u1", "#ffffff", 8, ToolEraser, seg(5, 5))

	s, ok := a.End(1)
	if !ok {
		t.Fatalf("End() ok = false, want true")
	}
	if s.Tool != ToolEraser || len(s.Segments) != 1 {
		t.Fatalf("stroke after overwrite = %+v, want eraser with 1 segment", s)
	}
}

func TestActiveStrokesAbandon(t *testing.T) {
	a := NewActiveStrokes()
	a.Begin(3, "u3", "#123456", 1, ToolBrush, seg(0, 0))
	a.Append(3, seg(1, 0))

	s, ok := a.Abandon(3)
	if !ok {
		t.Fatalf("Abandon() ok = false, want true")
	}
	if len(s.Segments) != 2 {
		t.Fatalf("abandoned stroke segments = %d, want 2", len(s.Segments))
	}
	if _, ok := a.Abandon(3); ok {
		t.Fatalf("second Abandon() ok = true, want false")
	}
}

func TestActiveStrokesClearAll(t *testing.T) {
	a := NewActiveStrokes()
	a.Begin(1, "u1", "#000000", 2, ToolBrush, seg(0, 0))
	a.Begin(2, "u2", "#000000", 2, ToolBrush, seg(0, 0))

	a.ClearAll()

	if got := a.Open(); got != 0 {
		t.Fatalf("Open() after ClearAll() = %d, want 0", got)
	}
	// A stroke-end arriving after the reset must not resurrect anything.
	if _, ok := a.End(1); ok {
		t.Fatalf("End() after ClearAll() ok = true, want false")
	}
}
