package relay

import (
	"time"

	"github.com/scribbleboard/scribbleboard/internal/board"
)

// CursorInterval is the minimum gap between relayed cursor frames per
// sending connection. Dropped intermediate positions are fine: cursor
// position is ephemeral, unlike stroke segments.
const CursorInterval = 50 * time.Millisecond

// cursorThrottle gates cursor relays to one per interval per sender. It is
// only touched from the session goroutine, so it carries no lock. The clock
// is injectable for tests.
type cursorThrottle struct {
	interval time.Duration
	now      func() time.Time
	last     map[board.ConnID]time.Time
}

func newCursorThrottle(interval time.Duration, now func() time.Time) *cursorThrottle {
	if interval <= 0 {
		interval = CursorInterval
	}
	if now == nil {
		now = time.Now
	}
	return &cursorThrottle{
		interval: interval,
		now:      now,
		last:     make(map[board.ConnID]time.Time),
	}
}

// Allow reports whether a cursor frame from conn may be relayed now, and
// records the emission time when it may.
func (t *cursorThrottle) Allow(conn board.ConnID) bool {
	now := t.now()
	if last, ok := t.last[conn]; ok && now.Sub(last) < t.interval {
		return false
	}
	t.last[conn] = now
	return true
}

// Forget drops throttle state for a departed connection.
func (t *cursorThrottle) Forget(conn board.ConnID) {
	delete(t.last, conn)
}
