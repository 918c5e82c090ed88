// Package transport carries the relay protocol over websockets. Each
// connection gets a read pump feeding the session inbox and a write pump
// draining the hub's send channel, so the relay never touches a socket
// directly.
package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scribbleboard/scribbleboard/internal/board"
	"github.com/scribbleboard/scribbleboard/internal/relay"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 45 * time.Second
	pingInterval   = 15 * time.Second
	maxMessageSize = 1 << 20
)

// Handler upgrades HTTP requests to websocket connections and bridges them
// to the relay session.
type Handler struct {
	session  *relay.Session
	hub      *relay.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler wires a websocket endpoint to a session and its hub.
func NewHandler(session *relay.Session, hub *relay.Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		session: session,
		hub:     hub,
		logger:  logger.With("component", "transport"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  8192,
			WriteBufferSize: 8192,
			CheckOrigin: func(*http.Request) bool {
				// The board is LAN-scoped and unauthenticated; any
				// origin may join.
				return true
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := h.hub.NextConn()
	out := h.hub.Attach(id)
	h.logger.Info("connection established", "conn", int64(id), "remote", r.RemoteAddr)

	h.session.Connect(id)
	go h.writePump(conn, out)
	h.readPump(conn, id)
}

// readPump consumes frames from the socket until it fails, preserving the
// per-connection ordering the protocol relies on, then reports the
// disconnect. The session detaches the connection from the hub, which in
// turn stops the write pump.
func (h *Handler) readPump(conn *websocket.Conn, id board.ConnID) {
	defer func() {
		h.session.Disconnect(id)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("connection read failed", "conn", int64(id), "error", err)
			}
			return
		}
		var env relay.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			// One bad frame must not kill the connection, let alone
			// the session.
			h.logger.Warn("undecodable frame", "conn", int64(id), "error", err)
			continue
		}
		h.session.HandleMessage(id, env)
	}
}

// writePump drains the hub channel onto the socket and keeps the
// connection alive with pings. It exits when the channel is closed
// (detach) or a write fails.
func (h *Handler) writePump(conn *websocket.Conn, out <-chan []byte) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame, open := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
