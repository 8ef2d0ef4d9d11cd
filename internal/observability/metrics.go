// Package observability provides Prometheus metrics for the pipeline
// orchestrators.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics records per-item outcomes, job terminations and attributed
// completion cost for each pipeline kind. A nil *PipelineMetrics is valid
// and records nothing, so metrics can be disabled at call sites.
type PipelineMetrics struct {
	itemsProcessed *prometheus.CounterVec
	jobsFinished   *prometheus.CounterVec
	completionCost *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers the pipeline metrics on reg.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		itemsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guesthub_pipeline_items_total",
			Help: "Pipeline items processed, by pipeline kind and outcome.",
		}, []string{"pipeline", "outcome"}),
		jobsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guesthub_pipeline_jobs_total",
			Help: "Pipeline jobs finished, by pipeline kind and terminal status.",
		}, []string{"pipeline", "status"}),
		completionCost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guesthub_completion_cost_usd_total",
			Help: "Attributed completion cost in USD, by pipeline kind.",
		}, []string{"pipeline"}),
	}

	reg.MustRegister(m.itemsProcessed, m.jobsFinished, m.completionCost)
	return m
}

// RecordItem counts one processed item with outcome "completed" or "failed".
func (m *PipelineMetrics) RecordItem(pipeline, outcome string) {
	if m == nil {
		return
	}
	m.itemsProcessed.WithLabelValues(pipeline, outcome).Inc()
}

// RecordJob counts one finished job with its terminal status.
func (m *PipelineMetrics) RecordJob(pipeline, status string) {
	if m == nil {
		return
	}
	m.jobsFinished.WithLabelValues(pipeline, status).Inc()
}

// RecordCost adds the USD cost of a completion call.
func (m *PipelineMetrics) RecordCost(pipeline string, usd float64) {
	if m == nil || usd <= 0 {
		return
	}
	m.completionCost.WithLabelValues(pipeline).Add(usd)
}

// Handler returns an HTTP handler exposing reg in Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
