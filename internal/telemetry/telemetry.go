// Package telemetry wraps the optional prometheus counters the rest of this
// module reports against. A nil *Metrics is always safe to call methods on:
// instrumentation is opt-in, wired only when a caller supplies a
// prometheus.Registerer, matching the ambient-concern-carried-regardless
// posture the rest of the module follows for logging and error handling.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters this module exposes. The zero value is not
// usable directly; construct with New or NewUnregistered. A nil *Metrics
// pointer is always safe — every method no-ops on a nil receiver.
type Metrics struct {
	tilesWritten prometheus.Counter
	tilesRead    prometheus.Counter
	flushes      prometheus.Counter
	cellsChanged prometheus.Counter
}

// New builds a Metrics and registers it with reg. A nil reg behaves like
// NewUnregistered (metrics are tracked but not exported).
func New(reg prometheus.Registerer) *Metrics {
	m := NewUnregistered()
	if reg == nil {
		return m
	}
	reg.MustRegister(m.tilesWritten, m.tilesRead, m.flushes, m.cellsChanged)
	return m
}

// NewUnregistered builds a Metrics not attached to any registry, useful for
// tests that want to assert on counter values directly.
func NewUnregistered() *Metrics {
	return &Metrics{
		tilesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occgrid_tiles_written_total",
			Help: "Tiles written to an in-memory or persistent map.",
		}),
		tilesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occgrid_tiles_read_total",
			Help: "Tiles read from an in-memory or persistent map.",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occgrid_observer_flushes_total",
			Help: "Occupancy observer flush() calls.",
		}),
		cellsChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occgrid_observer_cells_changed_total",
			Help: "Cells reported changed by the occupancy observer's changes_listener.",
		}),
	}
}

// TileWritten increments the tiles-written counter.
func (m *Metrics) TileWritten() {
	if m == nil {
		return
	}
	m.tilesWritten.Inc()
}

// TileRead increments the tiles-read counter.
func (m *Metrics) TileRead() {
	if m == nil {
		return
	}
	m.tilesRead.Inc()
}

// Flush increments the observer-flush counter.
func (m *Metrics) Flush() {
	if m == nil {
		return
	}
	m.flushes.Inc()
}

// CellsChanged adds n to the cells-changed counter.
func (m *Metrics) CellsChanged(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cellsChanged.Add(float64(n))
}
