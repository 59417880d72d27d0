package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"faas-platform/internal/core/executor"
)

// execLabels label every per-invocation series.
var execLabels = []string{"function_id", "function_name", "language", "technology"}

// durationBuckets cover sub-10ms to 10s so percentile estimates stay
// meaningful for short-lived function calls.
var durationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Metrics is the telemetry sink for the execution core. It owns its own
// prometheus registry so tests can scrape it in isolation. All operations
// are monotonic accumulation or gauge overwrite, safe under concurrent
// invocations.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	containerCPU    *prometheus.GaugeVec
	containerMemory *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "faas_requests_total",
				Help: "Total number of function invocations",
			},
			execLabels,
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "faas_errors_total",
				Help: "Total number of invocations whose function exited non-zero",
			},
			execLabels,
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "faas_execution_duration_seconds",
				Help:    "Wall-clock duration of function executions in seconds",
				Buckets: durationBuckets,
			},
			execLabels,
		),
		containerCPU: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "faas_container_cpu_usage_nanoseconds",
				Help: "Last observed cumulative CPU usage per warm container",
			},
			[]string{"container_name"},
		),
		containerMemory: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "faas_container_memory_usage_bytes",
				Help: "Last observed memory usage per warm container",
			},
			[]string{"container_name"},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.errorsTotal,
		m.duration,
		m.containerCPU,
		m.containerMemory,
	)
	return m
}

func (m *Metrics) RecordRequest(fnID, fnName string, lang executor.Language, tech executor.Technology) {
	m.requestsTotal.WithLabelValues(fnID, fnName, string(lang), string(tech)).Inc()
}

func (m *Metrics) RecordError(fnID, fnName string, lang executor.Language, tech executor.Technology) {
	m.errorsTotal.WithLabelValues(fnID, fnName, string(lang), string(tech)).Inc()
}

func (m *Metrics) RecordDuration(fnID, fnName string, lang executor.Language, tech executor.Technology, seconds float64) {
	m.duration.WithLabelValues(fnID, fnName, string(lang), string(tech)).Observe(seconds)
}

// RecordContainerStats overwrites the per-container gauges with the latest
// reading. Values are last-observed, not per-invocation deltas.
func (m *Metrics) RecordContainerStats(containerName string, cpuTotal, memUsage uint64) {
	m.containerCPU.WithLabelValues(containerName).Set(float64(cpuTotal))
	m.containerMemory.WithLabelValues(containerName).Set(float64(memUsage))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
