package board

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes counters and gauges for the shared canvas engine.
type Metrics struct {
	Participants  prometheus.Gauge
	HistorySize   prometheus.Gauge
	StrokesTotal  prometheus.Counter
	RelaysTotal   prometheus.Counter
	CursorDropped prometheus.Counter
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// NewMetrics returns the process-wide metrics set, registering the
// collectors on first use.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			Participants: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "scribbleboard_participants",
				Help: "Current number of connected participants",
			}),
			HistorySize: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "scribbleboard_history_strokes",
				Help: "Current number of strokes in the committed history",
			}),
			StrokesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "scribbleboard_strokes_committed_total",
				Help: "Total number of strokes committed to history",
			}),
			RelaysTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "scribbleboard_events_relayed_total",
				Help: "Total number of events fanned out to clients",
			}),
			CursorDropped: promauto.NewCounter(prometheus.CounterOpts{
				Name: "scribbleboard_cursor_frames_dropped_total",
				Help: "Cursor frames dropped by the per-sender throttle",
			}),
		}
	})
	return metricsInstance
}

func (m *Metrics) ParticipantJoined() {
	if m == nil || m.Participants == nil {
		return
	}
	m.Participants.Inc()
}

func (m *Metrics) ParticipantLeft() {
	if m == nil || m.Participants == nil {
		return
	}
	m.Participants.Dec()
}

func (m *Metrics) StrokeCommitted(historyLen int) {
	if m == nil {
		return
	}
	if m.StrokesTotal != nil {
		m.StrokesTotal.Inc()
	}
	if m.HistorySize != nil {
		m.HistorySize.Set(float64(historyLen))
	}
}

func (m *Metrics) HistoryResized(historyLen int) {
	if m == nil || m.HistorySize == nil {
		return
	}
	m.HistorySize.Set(float64(historyLen))
}

func (m *Metrics) EventsRelayed(n int) {
	if m == nil || m.RelaysTotal == nil || n <= 0 {
		return
	}
	m.RelaysTotal.Add(float64(n))
}

func (m *Metrics) CursorFrameDropped() {
	if m == nil || m.CursorDropped == nil {
		return
	}
	m.CursorDropped.Inc()
}
