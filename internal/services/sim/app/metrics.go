package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for a session.
// Tracks checkpoint outcomes and durations plus the headline economy gauges.
type Metrics struct {
	Checkpoints        *prometheus.CounterVec
	CheckpointDuration prometheus.Histogram
	Balance            prometheus.Gauge
	Level              prometheus.Gauge
	DaysClosed         prometheus.Counter
}

// NewMetrics registers the session metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Checkpoints: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shelfsim_checkpoints_total",
			Help: "Total number of checkpoints by reason and result",
		}, []string{"reason", "result"}),
		CheckpointDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "shelfsim_checkpoint_duration_seconds",
			Help:    "Duration of gather plus durable write",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		Balance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shelfsim_balance_cents",
			Help: "Current store balance in cents",
		}),
		Level: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shelfsim_level",
			Help: "Current player level",
		}),
		DaysClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "shelfsim_days_closed_total",
			Help: "Total number of in-game days closed by this process",
		}),
	}
}

// ObserveCheckpoint records one checkpoint attempt.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCheckpoint(reason Reason, err error, start time.Time) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Checkpoints.WithLabelValues(string(reason), result).Inc()
	m.CheckpointDuration.Observe(time.Since(start).Seconds())
}

// SetBalance updates the balance gauge.
func (m *Metrics) SetBalance(cents int64) {
	if m == nil {
		return
	}
	m.Balance.Set(float64(cents))
}

// SetLevel updates the level gauge.
func (m *Metrics) SetLevel(level int) {
	if m == nil {
		return
	}
	m.Level.Set(float64(level))
}

// IncrementDaysClosed records a day rollover.
func (m *Metrics) IncrementDaysClosed() {
	if m == nil {
		return
	}
	m.DaysClosed.Inc()
}
