package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "panelkit"

// Focus change reasons.
const (
	FocusNext  = "next"
	FocusReset = "reset"
	FocusAuto  = "auto"
)

// Metrics holds the render loop collectors. A nil *Metrics records nothing.
type Metrics struct {
	FramesRendered prometheus.Counter
	RenderDuration prometheus.Histogram
	HiddenElements prometheus.Gauge
	FocusChanges   *prometheus.CounterVec
	InputEvents    *prometheus.CounterVec
	ConfigReloads  *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer
// to expose them through promhttp.Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FramesRendered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "frames_total",
			Help:      "Total number of completed render passes",
		}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Render pass duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to ~200ms
		}),
		HiddenElements: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "hidden_elements",
			Help:      "Elements that could not be drawn in the last frame",
		}),
		FocusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "focus",
			Name:      "changes_total",
			Help:      "Total number of focus changes",
		}, []string{"reason"}),
		InputEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "events_total",
			Help:      "Total number of input events read",
		}, []string{"kind"}),
		ConfigReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "reloads_total",
			Help:      "Configuration reload attempts",
		}, []string{"result"}),
	}
}

// ObserveFrame records one render pass.
func (m *Metrics) ObserveFrame(d time.Duration, hidden int) {
	if m == nil {
		return
	}
	m.FramesRendered.Inc()
	m.RenderDuration.Observe(d.Seconds())
	m.HiddenElements.Set(float64(hidden))
}

// FocusChanged counts a focus move.
func (m *Metrics) FocusChanged(reason string) {
	if m == nil {
		return
	}
	m.FocusChanges.WithLabelValues(reason).Inc()
}

// InputReceived counts an input event of the given kind.
func (m *Metrics) InputReceived(kind string) {
	if m == nil {
		return
	}
	m.InputEvents.WithLabelValues(kind).Inc()
}

// ConfigReloaded counts a reload attempt.
func (m *Metrics) ConfigReloaded(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.ConfigReloads.WithLabelValues(result).Inc()
}
