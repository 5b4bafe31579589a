package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "propdesk"

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

// Metrics groups the report pipeline collectors
type Metrics struct {
	ReportsGenerated   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	ReportRows         *prometheus.HistogramVec
	ExportsTotal       *prometheus.CounterVec
	ExportBytes        *prometheus.CounterVec
	SavedReportsTotal  *prometheus.CounterVec
	ScheduledRunsTotal *prometheus.CounterVec
	ActiveSessions     prometheus.Gauge
}

// NewMetrics registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ReportsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_generated_total",
				Help:      "Total number of report generations by report type and outcome",
			},
			[]string{"report_type", "outcome"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_generation_duration_seconds",
				Help:      "Report generation latency distribution",
				Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"report_type"},
		),
		ReportRows: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_rows",
				Help:      "Number of rows in generated reports",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500},
			},
			[]string{"report_type"},
		),
		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_exports_total",
				Help:      "Total number of report exports by format and outcome",
			},
			[]string{"format", "outcome"},
		),
		ExportBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_export_bytes_total",
				Help:      "Bytes produced by report exports",
			},
			[]string{"format"},
		),
		SavedReportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "saved_reports_total",
				Help:      "Total number of save attempts by outcome",
			},
			[]string{"outcome"},
		),
		ScheduledRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scheduled_report_runs_total",
				Help:      "Total number of scheduled report runs by outcome",
			},
			[]string{"outcome"},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "report_sessions_active",
				Help:      "Current number of report sessions held in memory",
			},
		),
	}
}

// NewRegistry returns the registry served on /metrics, preloaded with the
// process and Go runtime collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
