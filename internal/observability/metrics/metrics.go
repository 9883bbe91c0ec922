package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for the ask pipeline.
type PipelineMetrics struct {
	asksTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	retrieved     prometheus.Histogram
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		asksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climaqa",
			Subsystem: "pipeline",
			Name:      "asks_total",
			Help:      "Total asks by label and outcome",
		}, []string{"label", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "climaqa",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		retrieved: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climaqa",
			Subsystem: "pipeline",
			Name:      "retrieved_passages",
			Help:      "Passages kept after thresholding",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.asksTotal, m.stageDuration, m.retrieved)
	return m
}

// ObserveAsk counts a finished ask. label is empty when classification failed.
func (m *PipelineMetrics) ObserveAsk(label, outcome string) {
	if m == nil {
		return
	}
	if label == "" {
		label = "unknown"
	}
	m.asksTotal.WithLabelValues(label, outcome).Inc()
}

func (m *PipelineMetrics) ObserveStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *PipelineMetrics) ObserveRetrieved(n int) {
	if m == nil {
		return
	}
	m.retrieved.Observe(float64(n))
}
