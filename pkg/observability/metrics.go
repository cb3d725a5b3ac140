// Package observability wires playback counters into Prometheus.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements runtime.Metrics on top of Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	navigations    prometheus.Counter
	overlaysOpened prometheus.Counter
	overlaysClosed prometheus.Counter
	triggers       *prometheus.CounterVec
	delaysFired    prometheus.Counter
	activeSessions prometheus.Gauge
}

// NewMetrics creates the collectors on a private registry so repeated
// construction in tests does not collide with the default registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		navigations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "framelight_navigations_total",
			Help: "Total number of frame navigations",
		}),
		overlaysOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "framelight_overlays_opened_total",
			Help: "Total number of overlays opened",
		}),
		overlaysClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "framelight_overlays_closed_total",
			Help: "Total number of overlays closed",
		}),
		triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framelight_triggers_total",
			Help: "Total number of triggers dispatched",
		}, []string{"trigger"}),
		delaysFired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "framelight_delay_timers_fired_total",
			Help: "Total number of delay timers that fired",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "framelight_active_sessions",
			Help: "Number of live playback sessions",
		}),
	}
	m.registry.MustRegister(
		m.navigations,
		m.overlaysOpened,
		m.overlaysClosed,
		m.triggers,
		m.delaysFired,
		m.activeSessions,
	)
	return m
}

// Navigation records one frame navigation.
func (m *Metrics) Navigation() { m.navigations.Inc() }

// OverlayOpened records one overlay push.
func (m *Metrics) OverlayOpened() { m.overlaysOpened.Inc() }

// OverlayClosed records one overlay pop.
func (m *Metrics) OverlayClosed() { m.overlaysClosed.Inc() }

// Trigger records one trigger dispatch, labelled by trigger name.
func (m *Metrics) Trigger(trigger string) { m.triggers.WithLabelValues(trigger).Inc() }

// DelayFired records one delay timer firing.
func (m *Metrics) DelayFired() { m.delaysFired.Inc() }

// SessionStarted adjusts the live session gauge up.
func (m *Metrics) SessionStarted() { m.activeSessions.Inc() }

// SessionEnded adjusts the live session gauge down.
func (m *Metrics) SessionEnded() { m.activeSessions.Dec() }

// Handler returns an HTTP handler exposing the collectors in Prometheus
// text format, suitable for mounting at /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
