package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes recorded by Metrics.Runs.
const (
	OutcomeSuccess     = "success"
	OutcomeRenderError = "render_error"
	OutcomeOutputError = "output_error"
	OutcomeSinkError   = "sink_error"
)

// Metrics holds the Prometheus collectors for an extraction run.
type Metrics struct {
	Runs           *prometheus.CounterVec // labels: outcome={success,render_error,output_error,sink_error}
	Fallbacks      *prometheus.CounterVec // labels: reason={no_row,short_row,date_missing,date_unparsable,precip_missing}
	SinkErrors     *prometheus.CounterVec // labels: sink={kafka,postgres}
	RenderDuration prometheus.Histogram
	PrecipInches   prometheus.Gauge
	LastSuccess    prometheus.Gauge
}

// NewMetrics creates the run metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_etl",
			Name:      "runs_total",
			Help:      "Extraction runs by outcome.",
		}, []string{"outcome"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_etl",
			Name:      "fallbacks_total",
			Help:      "Values replaced by their default during extraction, by reason.",
		}, []string{"reason"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_etl",
			Name:      "sink_errors_total",
			Help:      "Failed writes to secondary sinks, by sink.",
		}, []string{"sink"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rain_etl",
			Name:      "render_duration_seconds",
			Help:      "Time spent loading and rendering the observation page.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90},
		}),
		PrecipInches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rain_etl",
			Name:      "precip_inches",
			Help:      "Gauge catch of the most recently written reading.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rain_etl",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last fully successful run.",
		}),
	}

	reg.MustRegister(
		m.Runs,
		m.Fallbacks,
		m.SinkErrors,
		m.RenderDuration,
		m.PrecipInches,
		m.LastSuccess,
	)

	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Runs:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_etl", Name: "runs_total"}, []string{"outcome"}),
		Fallbacks:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_etl", Name: "fallbacks_total"}, []string{"reason"}),
		SinkErrors:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_etl", Name: "sink_errors_total"}, []string{"sink"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rain_etl", Name: "render_duration_seconds"}),
		PrecipInches:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rain_etl", Name: "precip_inches"}),
		LastSuccess:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rain_etl", Name: "last_success_timestamp_seconds"}),
	}
}

// WriteTextfile dumps everything in g to path in the Prometheus text format,
// for pickup by node_exporter's textfile collector. The file is replaced
// atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
