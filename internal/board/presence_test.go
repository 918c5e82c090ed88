package board

import (
	"strings"
	"testing"
)

func TestRegistryJoinLeave(t *testing.T) {
	r := NewRegistry(nil)
	r.CreateSpace("default")
	r.CreateSpace("default") // idempotent

	r.Join("default", Participant{ID: "u1", Conn: 1, Color: "#ff0000"})
	r.Join("default", Participant{ID: "u2", Conn: 2, Color: "#00ff00", Name: "Dana"})

	got := r.Participants("default")
	if len(got) != 2 {
		t.Fatalf("Participants() len = %d, want 2", len(got))
	}
	if got[0].ID != "u1" || got[1].ID != "u2" {
		t.Fatalf("participants out of insertion order: %v", got)
	}
	if got[0].Name != DefaultName {
		t.Fatalf("default name = %q, want %q", got[0].Name, DefaultName)
	}

	r.Leave("default", "u1")
	got = r.Participants("default")
	if len(got) != 1 || got[0].ID != "u2" {
		t.Fatalf("Participants() after leave = %v, want [u2]", got)
	}

	// Leaving twice, or leaving an unknown space, is a no-op.
	r.Leave("default", "u1")
	r.Leave("nowhere", "u2")
}

func TestRegistryJoinUnknownSpace(t *testing.T) {
	r := NewRegistry(nil)
	r.Join("nowhere", Participant{ID: "u1", Conn: 1})
	if got := r.Participants("nowhere"); got != nil {
		t.Fatalf("Participants(unknown) = %v, want nil", got)
	}
}

func TestRegistryRename(t *testing.T) {
	r := NewRegistry(nil)
	r.CreateSpace("default")
	r.Join("default", Participant{ID: "u1", Conn: 1})

	r.Rename("default", "u1", "  Morgan  ")
	if got := r.Participants("default")[0].Name; got != "Morgan" {
		t.Fatalf("name = %q, want Morgan", got)
	}

	// Absent participant: diagnostic only, no panic, no change.
	r.Rename("default", "ghost", "anyone")
	r.Rename("nowhere", "u1", "anyone")
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Riley", "Riley"},
		{"trimmed", "  Riley\t", "Riley"},
		{"whitespace only", "   ", DefaultName},
		{"empty", "", DefaultName},
		{"truncated", strings.Repeat("x", 40), strings.Repeat("x", 32)},
		{"exactly max", strings.Repeat("y", 32), strings.Repeat("y", 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Fatalf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRegistryFindConn(t *testing.T) {
	r := NewRegistry(nil)
	r.CreateSpace("default")
	r.CreateSpace("second")
	r.Join("default", Participant{ID: "u1", Conn: 10})
	r.Join("second", Participant{ID: "u2", Conn: 20})

	spaceID, p, ok := r.FindConn(20)
	if !ok {
		t.Fatalf("FindConn(20) ok = false, want true")
	}
	if spaceID != "second" || p.ID != "u2" {
		t.Fatalf("FindConn(20) = %q, %q", spaceID, p.ID)
	}

	if _, _, ok := r.FindConn(99); ok {
		t.Fatalf("FindConn(99) ok = true, want false")
	}
}

func TestNewParticipantIDUnique(t *testing.T) {
	seen := map[ParticipantID]bool{}
	for i := 0; i < 100; i++ {
		id := NewParticipantID()
		if seen[id] {
			t.Fatalf("duplicate participant id %q", id)
		}
		seen[id] = true
	}
}
