package board

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultName is substituted when a participant supplies no usable
	// display name.
	DefaultName = "Anonymous"

	// MaxNameLen caps display names, in runes.
	MaxNameLen = 32
)

// NewParticipantID returns a fresh opaque participant identifier.
func NewParticipantID() ParticipantID {
	return ParticipantID("user_" + uuid.NewString())
}

// NormalizeName trims whitespace, truncates to MaxNameLen runes, and
// substitutes DefaultName when nothing usable remains.
func NormalizeName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return DefaultName
	}
	if runes := []rune(name); len(runes) > MaxNameLen {
		name = string(runes[:MaxNameLen])
	}
	return name
}

type space struct {
	id           string
	participants map[ParticipantID]*Participant
	order        []ParticipantID
	createdAt    time.Time
}

// Registry owns the set of known participants per shared space. The data
// model supports any number of spaces even though the current deployment
// populates a single one.
type Registry struct {
	mu     sync.RWMutex
	spaces map[string]*space
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		spaces: make(map[string]*space),
		logger: logger.With("component", "presence"),
	}
}

// CreateSpace registers a space. Idempotent: creating an existing space is
// a no-op.
func (r *Registry) CreateSpace(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.spaces[id]; ok {
		return
	}
	r.spaces[id] = &space{
		id:           id,
		participants: make(map[ParticipantID]*Participant),
		createdAt:    time.Now(),
	}
}

// Join inserts a participant into a space. An unknown space is logged and
// ignored rather than treated as fatal.
func (r *Registry) Join(spaceID string, p Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sp, ok := r.spaces[spaceID]
	if !ok {
		r.logger.Warn("join to unknown space", "space", spaceID, "participant", p.ID)
		return
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}
	if p.Name == "" {
		p.Name = DefaultName
	}
	sp.participants[p.ID] = &p
	sp.order = append(sp.order, p.ID)
}

// Leave removes a participant from a space. No-op if either is absent.
func (r *Registry) Leave(spaceID string, id ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sp, ok := r.spaces[spaceID]
	if !ok {
		return
	}
	if _, ok := sp.participants[id]; !ok {
		return
	}
	delete(sp.participants, id)
	for i, pid := range sp.order {
		if pid == id {
			sp.order = append(sp.order[:i], sp.order[i+1:]...)
			break
		}
	}
}

// Rename updates a participant's display name after normalization. Absent
// participants get a diagnostic and no change.
func (r *Registry) Rename(spaceID string, id ParticipantID, newName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sp, ok := r.spaces[spaceID]
	if !ok {
		r.logger.Warn("rename in unknown space", "space", spaceID, "participant", id)
		return
	}
	p, ok := sp.participants[id]
	if !ok {
		r.logger.Warn("rename for unknown participant", "space", spaceID, "participant", id)
		return
	}
	p.Name = NormalizeName(newName)
}

// Participants returns the space's participants in insertion order. The
// returned slice is a copy.
func (r *Registry) Participants(spaceID string) []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sp, ok := r.spaces[spaceID]
	if !ok {
		return nil
	}
	out := make([]Participant, 0, len(sp.order))
	for _, pid := range sp.order {
		if p, ok := sp.participants[pid]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// FindConn reverse-looks-up a participant by connection handle across all
// spaces. Linear in the total participant count, which is fine at the
// tens-to-hundreds scale this serves. Used for disconnect cleanup.
func (r *Registry) FindConn(conn ConnID) (spaceID string, p Participant, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, sp := range r.spaces {
		for _, cand := range sp.participants {
			if cand.Conn == conn {
				return id, *cand, true
			}
		}
	}
	return "", Participant{}, false
}
