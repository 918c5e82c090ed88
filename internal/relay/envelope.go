// Package relay implements the synchronization engine for a shared canvas:
// it consumes inbound events from connections, mutates the presence
// registry, active-stroke tracker, and stroke history, and fans the
// resulting notices out to the other connections.
package relay

import (
	"encoding/json"

	"github.com/scribbleboard/scribbleboard/internal/board"
)

// Envelope is the wire frame in both directions: a type tag plus an opaque
// payload decoded per type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client -> server event types.
const (
	EventSetName     = "set-name"
	EventStrokeBegin = "stroke-begin"
	EventStrokePoint = "stroke-point"
	EventStrokeEnd   = "stroke-end"
	EventCursorMove  = "cursor-move"
	EventUndo        = "undo"
	EventClearCanvas = "clear-canvas"
)

// Server -> client event types.
const (
	eventInit                = "init"
	eventParticipantJoined   = "participant-joined"
	eventParticipantLeft     = "participant-left"
	eventParticipantsUpdated = "participants-updated"
	eventRemoteStrokeBegin   = "remote-stroke-begin"
	eventRemoteStrokePoint   = "remote-stroke-point"
	eventRemoteStrokeEnd     = "remote-stroke-end"
	eventRemoteCursor        = "remote-cursor"
	eventHistoryReset        = "history-reset"
)

// Reset reasons carried by history-reset.
const (
	resetReasonUndo  = "undo"
	resetReasonClear = "clear"
)

type setNamePayload struct {
	Name string `json:"name"`
}

type strokeBeginPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Tool  string  `json:"tool"`
}

type pointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type initPayload struct {
	ParticipantID board.ParticipantID `json:"participantId"`
	Color         string              `json:"color"`
	History       []board.Stroke      `json:"history"`
	Participants  []board.Participant `json:"participants"`
}

type participantNoticePayload struct {
	ParticipantID board.ParticipantID `json:"participantId"`
	Color         string              `json:"color,omitempty"`
	Name          string              `json:"name,omitempty"`
}

type participantsUpdatedPayload struct {
	Participants []board.Participant `json:"participants"`
}

type remoteStrokeBeginPayload struct {
	ParticipantID board.ParticipantID `json:"participantId"`
	X             float64             `json:"x"`
	Y             float64             `json:"y"`
	Color         string              `json:"color"`
	Width         float64             `json:"width"`
	Tool          board.Tool          `json:"tool"`
}

type remoteStrokePointPayload struct {
	ParticipantID board.ParticipantID `json:"participantId"`
	X             float64             `json:"x"`
	Y             float64             `json:"y"`
}

type remoteStrokeEndPayload struct {
	ParticipantID board.ParticipantID `json:"participantId"`
}

type remoteCursorPayload struct {
	ParticipantID board.ParticipantID `json:"participantId"`
	X             float64             `json:"x"`
	Y             float64             `json:"y"`
	Color         string              `json:"color"`
}

type historyResetPayload struct {
	Reason  string         `json:"reason"`
	History []board.Stroke `json:"history"`
}
