package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process collectors. A nil *Metrics is valid and records
// nothing, which keeps tests free of registry setup.
type Metrics struct {
	Registry *prometheus.Registry

	storeQueries *prometheus.CounterVec
	llmCalls     *prometheus.CounterVec
	llmLatency   *prometheus.HistogramVec
	requests     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		storeQueries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medwise",
			Name:      "store_queries_total",
			Help:      "Graph store queries by outcome.",
		}, []string{"outcome"}),
		llmCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medwise",
			Name:      "llm_calls_total",
			Help:      "LLM generations by stage and outcome.",
		}, []string{"stage", "outcome"}),
		llmLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medwise",
			Name:      "llm_call_seconds",
			Help:      "LLM generation latency by stage.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"stage"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medwise",
			Name:      "requests_total",
			Help:      "Requests by route and status class.",
		}, []string{"route", "class"}),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveQuery(err error) {
	if m == nil {
		return
	}
	m.storeQueries.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObserveLLM(stage string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.llmCalls.WithLabelValues(stage, outcome(err)).Inc()
	m.llmLatency.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveRequest(route, class string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, class).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
