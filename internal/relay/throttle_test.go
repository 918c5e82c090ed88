package relay

import (
	"testing"
	"time"
)

func TestCursorThrottle(t *testing.T) {
	clock := time.Unix(0, 0)
	th := newCursorThrottle(CursorInterval, func() time.Time { return clock })

	if !th.Allow(1) {
		t.Fatalf("first frame not allowed")
	}
	if th.Allow(1) {
		t.Fatalf("second frame within interval allowed")
	}

	clock = clock.Add(49 * time.Millisecond)
	if th.Allow(1) {
		t.Fatalf("frame at 49ms allowed, want dropped")
	}

	clock = clock.Add(2 * time.Millisecond)
	if !th.Allow(1) {
		t.Fatalf("frame after interval not allowed")
	}
}

func TestCursorThrottlePerSender(t *testing.T) {
	clock := time.Unix(0, 0)
	th := newCursorThrottle(CursorInterval, func() time.Time { return clock })

	if !th.Allow(1) {
		t.Fatalf("conn 1 first frame not allowed")
	}
	// The limit is per sending connection, not global.
	if !th.Allow(2) {
		t.Fatalf("conn 2 first frame not allowed")
	}
	if th.Allow(2) {
		t.Fatalf("conn 2 second frame within interval allowed")
	}
}

func TestCursorThrottleForget(t *testing.T) {
	clock := time.Unix(0, 0)
	th := newCursorThrottle(CursorInterval, func() time.Time { return clock })

	th.Allow(1)
	th.Forget(1)
	if !th.Allow(1) {
		t.Fatalf("frame after Forget() not allowed")
	}
}
