package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for the generation pipeline.
type PipelineMetrics struct {
	webhookTotal      *prometheus.CounterVec
	generationTotal   *prometheus.CounterVec
	generationLatency prometheus.Histogram
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchpage",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Total inbound voice webhooks by outcome",
		}, []string{"outcome"}),
		generationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchpage",
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "Total generation invocations by status",
		}, []string{"status"}),
		generationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "launchpage",
			Subsystem: "generation",
			Name:      "latency_seconds",
			Help:      "Latency of generation collaborator calls",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 90},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.webhookTotal, m.generationTotal, m.generationLatency)
	return m
}

func (m *PipelineMetrics) ObserveWebhook(outcome string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(outcome).Inc()
}

func (m *PipelineMetrics) ObserveGeneration(status string, seconds float64) {
	if m == nil {
		return
	}
	m.generationTotal.WithLabelValues(status).Inc()
	m.generationLatency.Observe(seconds)
}
