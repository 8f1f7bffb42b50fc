package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordReportTransition(t *testing.T) {
	m, err := NewModerationMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordReportTransition("resolved", "bulk", 3)
	m.RecordReportTransition("resolved", "bulk", 0)
	m.RecordReportTransition("dismissed", "single", 1)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.reportTransitionsTotal.WithLabelValues("resolved", "bulk")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.reportTransitionsTotal.WithLabelValues("dismissed", "single")))
}

func TestRecordAppealDecisionAndSoftFailure(t *testing.T) {
	m, err := NewModerationMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordAppealDecision("approved")
	m.RecordAppealDecision("approved")
	m.RecordNotificationSoftFailure("appeal_approved")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.appealDecisionsTotal.WithLabelValues("approved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.notificationSoftFailure.WithLabelValues("appeal_approved")))
}

func TestDoubleRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewModerationMetrics(registry)
	require.NoError(t, err)

	_, err = NewModerationMetrics(registry)
	assert.Error(t, err)
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *ModerationMetrics
	assert.NotPanics(t, func() {
		m.RecordReportTransition("resolved", "single", 1)
		m.RecordAppealDecision("rejected")
		m.RecordNotificationSoftFailure("appeal_rejected")
		m.ObserveOpenQueue(10)
	})
}
