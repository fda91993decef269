package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis results used as the "result" label.
const (
	ResultOK             = "ok"
	ResultParseError     = "parse_error"
	ResultAttributeError = "attribute_error"
	ResultRejected       = "rejected"
)

// Metrics holds the collectors for diagram analyses.
type Metrics struct {
	registry *prometheus.Registry

	Analyses         *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	FlowsPerDiagram  prometheus.Histogram
	NodesPerDiagram  prometheus.Histogram
	Notes            prometheus.Counter
	UploadBytes      prometheus.Histogram
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Analyses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "archmetrics_analyses_total",
			Help: "Diagram analyses by result",
		}, []string{"result"}),
		AnalysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "archmetrics_analysis_duration_seconds",
			Help:    "Time spent parsing and aggregating a diagram",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		FlowsPerDiagram: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "archmetrics_flows_per_diagram",
			Help:    "Number of flows found in an analyzed diagram",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		NodesPerDiagram: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "archmetrics_nodes_per_diagram",
			Help:    "Number of nodes found in an analyzed diagram",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		}),
		Notes: f.NewCounter(prometheus.CounterOpts{
			Name: "archmetrics_diagram_notes_total",
			Help: "Recoverable irregularities (dangling references, duplicate ids) seen while extracting",
		}),
		UploadBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "archmetrics_upload_bytes",
			Help:    "Size of uploaded diagrams",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
}

// ObserveAnalysis records one analysis outcome.
func (m *Metrics) ObserveAnalysis(result string, started time.Time) {
	m.Analyses.WithLabelValues(result).Inc()
	m.AnalysisDuration.Observe(time.Since(started).Seconds())
}

// ObserveDiagram records the shape of a successfully analyzed diagram.
func (m *Metrics) ObserveDiagram(flows, nodes, notes int) {
	m.FlowsPerDiagram.Observe(float64(flows))
	m.NodesPerDiagram.Observe(float64(nodes))
	m.Notes.Add(float64(notes))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
