package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"fleetops/internal/compliance/models"
)

func TestObserveReport(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReport(models.ComplianceReport{
		Period:  models.Period{Type: models.PeriodWeekly},
		Summary: models.ReportSummary{ComplianceState: models.StateHigh},
		Violations: []models.Violation{
			{Type: models.ViolationContinuousDriving, Severity: models.SeverityHigh},
			{Type: models.ViolationContinuousDriving, Severity: models.SeverityHigh},
		},
	}, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Violations.WithLabelValues("CONTINUOUS_DRIVING_EXCEEDED", "high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportStates.WithLabelValues("HIGH")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ReportLatency))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReport(models.ComplianceReport{}, time.Second)
		m.IncAlert(models.Alert{})
		m.ObserveFetch(time.Second)
	})
}
