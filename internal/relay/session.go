package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/scribbleboard/scribbleboard/internal/board"
)

// inboxBuffer bounds how many inbound events can queue before transport
// read pumps block on enqueue.
const inboxBuffer = 256

type eventKind int

const (
	evConnect eventKind = iota
	evMessage
	evDisconnect
)

type event struct {
	kind eventKind
	conn board.ConnID
	env  Envelope
}

// displayColors is the palette join-time display colors are drawn from.
var displayColors = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4",
	"#42d4f4", "#f032e6", "#bfef45", "#469990", "#9a6324",
	"#800000", "#000075", "#808000", "#008080", "#e6beff",
}

// Session is the synchronization protocol handler for one shared space.
// One goroutine (Run) owns the registry, history, and active-stroke
// tracker: every inbound event is processed fully before the next is
// dequeued, so the stores never see concurrent mutation.
type Session struct {
	space   string
	reg     *board.Registry
	history *board.History
	active  *board.ActiveStrokes
	hub     *Hub
	metrics *board.Metrics
	logger  *slog.Logger

	throttle *cursorThrottle
	now      func() time.Time
	pick     func(n int) int

	inbox chan event
}

// Option tweaks session construction. Used by tests to pin the clock.
type Option func(*Session)

// WithClock replaces the wall clock used for segment timestamps and the
// cursor throttle.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithColorPicker replaces the palette index picker.
func WithColorPicker(pick func(n int) int) Option {
	return func(s *Session) { s.pick = pick }
}

// NewSession wires a protocol handler over its three stores and a hub. The
// space must already exist in the registry.
func NewSession(space string, reg *board.Registry, history *board.History, active *board.ActiveStrokes, hub *Hub, metrics *board.Metrics, logger *slog.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		space:   space,
		reg:     reg,
		history: history,
		active:  active,
		hub:     hub,
		metrics: metrics,
		logger:  logger.With("component", "relay", "space", space),
		now:     time.Now,
		pick:    rand.IntN,
		inbox:   make(chan event, inboxBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.throttle = newCursorThrottle(CursorInterval, s.now)
	return s
}

// Run consumes the inbox until ctx is done. All store mutation happens
// here, on this one goroutine.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.inbox:
			s.process(ev)
		}
	}
}

// Connect enqueues a connection-established event. The connection must
// already be attached to the hub so the init frame has somewhere to go.
func (s *Session) Connect(conn board.ConnID) {
	s.inbox <- event{kind: evConnect, conn: conn}
}

// HandleMessage enqueues an inbound client frame.
func (s *Session) HandleMessage(conn board.ConnID, env Envelope) {
	s.inbox <- event{kind: evMessage, conn: conn, env: env}
}

// Disconnect enqueues a connection-closed event. The session detaches the
// connection from the hub once cleanup notices have gone out.
func (s *Session) Disconnect(conn board.ConnID) {
	s.inbox <- event{kind: evDisconnect, conn: conn}
}

// process applies one event. Exposed to tests in this package so the state
// machine can be driven synchronously.
func (s *Session) process(ev event) {
	switch ev.kind {
	case evConnect:
		s.handleConnect(ev.conn)
	case evDisconnect:
		s.handleDisconnect(ev.conn)
	case evMessage:
		s.handleMessage(ev.conn, ev.env)
	}
}

func (s *Session) handleConnect(conn board.ConnID) {
	p := board.Participant{
		ID:       board.NewParticipantID(),
		Conn:     conn,
		Color:    displayColors[s.pick(len(displayColors))],
		Name:     board.DefaultName,
		JoinedAt: s.now(),
	}
	s.reg.Join(s.space, p)
	s.metrics.ParticipantJoined()
	s.logger.Info("participant joined", "participant", p.ID, "conn", int64(conn), "color", p.Color)

	s.emitTo(conn, eventInit, initPayload{
		ParticipantID: p.ID,
		Color:         p.Color,
		History:       s.history.Snapshot(),
		Participants:  s.reg.Participants(s.space),
	})
	s.emit(eventParticipantJoined, participantNoticePayload{
		ParticipantID: p.ID,
		Color:         p.Color,
		Name:          p.Name,
	}, conn)
	s.emit(eventParticipantsUpdated, participantsUpdatedPayload{
		Participants: s.reg.Participants(s.space),
	}, conn)
}

func (s *Session) handleDisconnect(conn board.ConnID) {
	// A stroke cut off by the disconnect is treated as an implicit
	// stroke-end: whatever was drawn is preserved.
	if stroke, open := s.active.Abandon(conn); open {
		s.history.Commit(stroke)
		s.metrics.StrokeCommitted(s.history.Len())
	}
	s.throttle.Forget(conn)

	spaceID, p, ok := s.reg.FindConn(conn)
	if ok {
		s.reg.Leave(spaceID, p.ID)
		s.metrics.ParticipantLeft()
		s.logger.Info("participant left", "participant", p.ID, "conn", int64(conn))

		s.emit(eventRemoteStrokeEnd, remoteStrokeEndPayload{ParticipantID: p.ID}, conn)
		s.emit(eventParticipantLeft, participantNoticePayload{ParticipantID: p.ID}, conn)
		s.emit(eventParticipantsUpdated, participantsUpdatedPayload{
			Participants: s.reg.Participants(s.space),
		}, conn)
	}
	s.hub.Detach(conn)
}

func (s *Session) handleMessage(conn board.ConnID, env Envelope) {
	_, p, ok := s.reg.FindConn(conn)
	if !ok {
		s.logger.Warn("event from unknown connection", "conn", int64(conn), "event", env.Type)
		return
	}

	switch env.Type {
	case EventSetName:
		s.handleSetName(p, env.Data)
	case EventStrokeBegin:
		s.handleStrokeBegin(conn, p, env.Data)
	case EventStrokePoint:
		s.handleStrokePoint(conn, p, env.Data)
	case EventStrokeEnd:
		s.handleStrokeEnd(conn, p)
	case EventCursorMove:
		s.handleCursorMove(conn, p, env.Data)
	case EventUndo:
		s.handleUndo(p)
	case EventClearCanvas:
		s.handleClearCanvas(p)
	default:
		s.logger.Warn("unknown event type", "event", env.Type, "participant", p.ID)
	}
}

func (s *Session) handleSetName(p board.Participant, data json.RawMessage) {
	var payload setNamePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.Warn("malformed set-name payload", "participant", p.ID, "error", err)
		return
	}
	s.reg.Rename(s.space, p.ID, payload.Name)
	// Name changes go to everyone, sender included, so all user panels
	// agree.
	s.emit(eventParticipantsUpdated, participantsUpdatedPayload{
		Participants: s.reg.Participants(s.space),
	}, 0)
}

func (s *Session) handleStrokeBegin(conn board.ConnID, p board.Participant, data json.RawMessage) {
	var payload strokeBeginPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.Warn("malformed stroke-begin payload", "participant", p.ID, "error", err)
		return
	}
	tool := board.Tool(payload.Tool)
	if !tool.Valid() {
		s.logger.Warn("stroke-begin with unknown tool", "participant", p.ID, "tool", payload.Tool)
		return
	}
	if payload.Width <= 0 {
		s.logger.Warn("stroke-begin with non-positive width", "participant", p.ID, "width", payload.Width)
		return
	}

	s.active.Begin(conn, p.ID, payload.Color, payload.Width, tool, board.Segment{
		X:          payload.X,
		Y:          payload.Y,
		CapturedAt: s.now(),
	})
	s.emit(eventRemoteStrokeBegin, remoteStrokeBeginPayload{
		ParticipantID: p.ID,
		X:             payload.X,
		Y:             payload.Y,
		Color:         payload.Color,
		Width:         payload.Width,
		Tool:          tool,
	}, conn)
}

// handleStrokePoint buffers the point when a stroke is open and relays it
// either way. A point with no open stroke is a benign race (a late frame
// after end, or a move before the begin arrived); the buffer drop gets no
// diagnostic, and the relay still goes out because the sender has already
// rendered the point locally. Such a point is visible to current viewers
// but never persisted to history.
func (s *Session) handleStrokePoint(conn board.ConnID, p board.Participant, data json.RawMessage) {
	var payload pointPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.Warn("malformed stroke-point payload", "participant", p.ID, "error", err)
		return
	}
	s.active.Append(conn, board.Segment{
		X:          payload.X,
		Y:          payload.Y,
		CapturedAt: s.now(),
	})
	s.emit(eventRemoteStrokePoint, remoteStrokePointPayload{
		ParticipantID: p.ID,
		X:             payload.X,
		Y:             payload.Y,
	}, conn)
}

func (s *Session) handleStrokeEnd(conn board.ConnID, p board.Participant) {
	if stroke, ok := s.active.End(conn); ok {
		s.history.Commit(stroke)
		s.metrics.StrokeCommitted(s.history.Len())
	}
	s.emit(eventRemoteStrokeEnd, remoteStrokeEndPayload{ParticipantID: p.ID}, conn)
}

func (s *Session) handleCursorMove(conn board.ConnID, p board.Participant, data json.RawMessage) {
	var payload pointPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.Warn("malformed cursor-move payload", "participant", p.ID, "error", err)
		return
	}
	if !s.throttle.Allow(conn) {
		s.metrics.CursorFrameDropped()
		return
	}
	s.emit(eventRemoteCursor, remoteCursorPayload{
		ParticipantID: p.ID,
		X:             payload.X,
		Y:             payload.Y,
		Color:         p.Color,
	}, conn)
}

func (s *Session) handleUndo(p board.Participant) {
	// Undo is global: it pops the chronologically last commit regardless
	// of owner. Nothing to undo means nothing to announce.
	if _, ok := s.history.UndoLast(); !ok {
		return
	}
	s.metrics.HistoryResized(s.history.Len())
	s.logger.Info("undo", "participant", p.ID, "remaining", s.history.Len())
	s.emit(eventHistoryReset, historyResetPayload{
		Reason:  resetReasonUndo,
		History: s.history.Snapshot(),
	}, 0)
}

func (s *Session) handleClearCanvas(p board.Participant) {
	s.history.Clear()
	// Drop in-progress strokes too, so a stroke-end arriving after the
	// reset cannot resurrect a pre-reset stroke.
	s.active.ClearAll()
	s.metrics.HistoryResized(0)
	s.logger.Info("canvas cleared", "participant", p.ID)
	s.emit(eventHistoryReset, historyResetPayload{
		Reason:  resetReasonClear,
		History: []board.Stroke{},
	}, 0)
}

func encodeEvent(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: typ, Data: raw})
}

// emit broadcasts an event to every connection except exclude (0 excludes
// nobody).
func (s *Session) emit(typ string, payload any, exclude board.ConnID) {
	frame, err := encodeEvent(typ, payload)
	if err != nil {
		s.logger.Error("marshal outbound event", "event", typ, "error", err)
		return
	}
	s.metrics.EventsRelayed(s.hub.Broadcast(frame, exclude))
}

// emitTo sends an event to a single connection.
func (s *Session) emitTo(conn board.ConnID, typ string, payload any) {
	frame, err := encodeEvent(typ, payload)
	if err != nil {
		s.logger.Error("marshal outbound event", "event", typ, "error", err)
		return
	}
	if s.hub.SendTo(conn, frame) {
		s.metrics.EventsRelayed(1)
	}
}
