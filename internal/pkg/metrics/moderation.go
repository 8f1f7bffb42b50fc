// Package metrics provides Prometheus metrics for moderation and appeal workflows.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ModerationMetrics groups the counters exposed by the triage queue, the
// appeal decision engine and notification emission.
type ModerationMetrics struct {
	reportTransitionsTotal  *prometheus.CounterVec
	appealDecisionsTotal    *prometheus.CounterVec
	notificationSoftFailure *prometheus.CounterVec
	openQueueSize           prometheus.Histogram
}

// NewModerationMetrics creates and registers moderation metrics.
func NewModerationMetrics(registry prometheus.Registerer) (*ModerationMetrics, error) {
	m := &ModerationMetrics{
		reportTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_report_transitions_total",
				Help: "Report status transitions by target status and mode (single, bulk)",
			},
			[]string{"status", "mode"},
		),
		appealDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_appeal_decisions_total",
				Help: "Appeal decisions recorded, by decision",
			},
			[]string{"decision"},
		),
		notificationSoftFailure: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_notification_soft_failures_total",
				Help: "Notifications that failed after the authoritative state change was committed",
			},
			[]string{"notification_type"},
		),
		openQueueSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "moderation_open_queue_size",
				Help:    "Number of open reports returned by triage listings",
				Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.reportTransitionsTotal,
		m.appealDecisionsTotal,
		m.notificationSoftFailure,
		m.openQueueSize,
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register moderation metrics: %w", err)
		}
	}

	return m, nil
}

// RecordReportTransition counts report transitions. n is the number of reports moved.
func (m *ModerationMetrics) RecordReportTransition(status, mode string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reportTransitionsTotal.WithLabelValues(status, mode).Add(float64(n))
}

// RecordAppealDecision counts a committed appeal decision
func (m *ModerationMetrics) RecordAppealDecision(decision string) {
	if m == nil {
		return
	}
	m.appealDecisionsTotal.WithLabelValues(decision).Inc()
}

// RecordNotificationSoftFailure counts a swallowed notification failure
func (m *ModerationMetrics) RecordNotificationSoftFailure(notificationType string) {
	if m == nil {
		return
	}
	m.notificationSoftFailure.WithLabelValues(notificationType).Inc()
}

// ObserveOpenQueue records the size of an open-reports listing
func (m *ModerationMetrics) ObserveOpenQueue(size int) {
	if m == nil {
		return
	}
	m.openQueueSize.Observe(float64(size))
}
