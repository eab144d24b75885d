package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fleetops/internal/compliance/models"
)

// Metrics provides observability for the compliance module.
type Metrics struct {
	// Report assembly latency by period type
	ReportLatency *prometheus.HistogramVec

	// Violations found in generated reports
	Violations *prometheus.CounterVec

	// Alerts raised for in-progress days
	Alerts *prometheus.CounterVec

	// Activity store fetch latency
	FetchLatency prometheus.Histogram

	// Reports by resulting compliance state
	ReportStates *prometheus.CounterVec
}

// New registers the compliance metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ReportLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fleetops_compliance_report_duration_seconds",
			Help:    "Duration of compliance report generation including store fetches",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"period"}),

		Violations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetops_compliance_violations_total",
			Help: "Violations found in generated reports by type and severity",
		}, []string{"type", "severity"}),

		Alerts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetops_compliance_alerts_total",
			Help: "Predictive alerts raised by type and severity",
		}, []string{"type", "severity"}),

		FetchLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleetops_compliance_activity_fetch_duration_seconds",
			Help:    "Duration of activity record fetches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		ReportStates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetops_compliance_reports_total",
			Help: "Generated reports by compliance state",
		}, []string{"state"}),
	}
}

// ObserveReport records one generated report.
func (m *Metrics) ObserveReport(r models.ComplianceReport, d time.Duration) {
	if m == nil {
		return
	}
	m.ReportLatency.WithLabelValues(string(r.Period.Type)).Observe(d.Seconds())
	m.ReportStates.WithLabelValues(string(r.Summary.ComplianceState)).Inc()
	for _, v := range r.Violations {
		m.Violations.WithLabelValues(string(v.Type), string(v.Severity)).Inc()
	}
}

func (m *Metrics) IncAlert(a models.Alert) {
	if m != nil {
		m.Alerts.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
	}
}

func (m *Metrics) ObserveFetch(d time.Duration) {
	if m != nil {
		m.FetchLatency.Observe(d.Seconds())
	}
}
