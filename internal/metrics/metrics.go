// Package metrics defines the Prometheus collectors published by the
// engine. All recording methods tolerate a nil receiver so callers that run
// without metrics need no guards.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the engine's collectors.
type Metrics struct {
	nodesTotal    *prometheus.CounterVec
	runsTotal     *prometheus.CounterVec
	stageDuration prometheus.Histogram
	liveValues    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		nodesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockflow",
			Subsystem: "executor",
			Name:      "nodes_total",
			Help:      "Nodes reaching a terminal state, by outcome.",
		}, []string{"outcome"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockflow",
			Subsystem: "executor",
			Name:      "runs_total",
			Help:      "Graph executions, by overall result.",
		}, []string{"result"}),
		stageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blockflow",
			Subsystem: "executor",
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of each barrier-synchronized stage.",
			Buckets:   prometheus.DefBuckets,
		}),
		liveValues: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blockflow",
			Subsystem: "valstore",
			Name:      "live_values",
			Help:      "Intermediate values currently retained by the value store.",
		}),
	}
	reg.MustRegister(m.nodesTotal, m.runsTotal, m.stageDuration, m.liveValues)
	return m
}

// ObserveNode records one node reaching a terminal state.
func (m *Metrics) ObserveNode(outcome string) {
	if m == nil {
		return
	}
	m.nodesTotal.WithLabelValues(outcome).Inc()
}

// ObserveRun records one finished graph execution.
func (m *Metrics) ObserveRun(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.runsTotal.WithLabelValues(result).Inc()
}

// ObserveStage records the duration of one completed stage.
func (m *Metrics) ObserveStage(d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.Observe(d.Seconds())
}

// SetLiveValues updates the live-value gauge.
func (m *Metrics) SetLiveValues(n int) {
	if m == nil {
		return
	}
	m.liveValues.Set(float64(n))
}
