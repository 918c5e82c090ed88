package relay

import (
	"sync"
	"sync/atomic"

	"github.com/scribbleboard/scribbleboard/internal/board"
)

// sendBuffer is the per-connection outbound queue depth. A consumer that
// falls further behind than this has its frames dropped rather than
// stalling the relay.
const sendBuffer = 64

// Hub owns the outbound side of every connection: a registry of buffered
// send channels keyed by connection handle. The transport drains the
// channel for its connection; the relay session enqueues into it.
type Hub struct {
	mu     sync.RWMutex
	conns  map[board.ConnID]chan []byte
	nextID atomic.Int64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[board.ConnID]chan []byte)}
}

// NextConn allocates a fresh connection handle. Handles start at 1 so the
// zero value can mean "no connection".
func (h *Hub) NextConn() board.ConnID {
	return board.ConnID(h.nextID.Add(1))
}

// Attach registers a connection and returns the channel its transport must
// drain. The channel is closed by Detach.
func (h *Hub) Attach(id board.ConnID) <-chan []byte {
	ch := make(chan []byte, sendBuffer)
	h.mu.Lock()
	h.conns[id] = ch
	h.mu.Unlock()
	return ch
}

// Detach removes a connection and closes its send channel. No-op if the
// connection is unknown.
func (h *Hub) Detach(id board.ConnID) {
	h.mu.Lock()
	ch, ok := h.conns[id]
	if ok {
		delete(h.conns, id)
	}
	h.mu.Unlock()
	if ok {
		close(ch)
	}
}

// SendTo enqueues a frame for one connection. The enqueue never blocks; a
// full buffer drops the frame. Returns whether the frame was enqueued.
func (h *Hub) SendTo(id board.ConnID, frame []byte) bool {
	h.mu.RLock()
	ch, ok := h.conns[id]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	select {
	case ch <- frame:
		return true
	default:
		return false
	}
}

// Broadcast enqueues a frame for every connection except exclude (pass 0 to
// exclude nobody). Returns the number of connections the frame was
// enqueued for.
func (h *Hub) Broadcast(frame []byte, exclude board.ConnID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for id, ch := range h.conns {
		if id == exclude {
			continue
		}
		select {
		case ch <- frame:
			sent++
		default:
		}
	}
	return sent
}

// Len reports the number of attached connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
