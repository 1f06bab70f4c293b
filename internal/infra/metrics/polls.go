package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(pollsTotal, pollLatencyMs, outputSamplesTotal) }

var pollsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "spodown_polls_total",
		Help: "Progress polls issued, labeled by outcome.",
	},
	[]string{"outcome"}, // 'progress', 'complete', 'unknown', 'error'
)

var pollLatencyMs = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "spodown_poll_latency_ms",
		Help:    "Progress poll round-trip latency in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	},
)

var outputSamplesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "spodown_output_samples_total",
		Help: "Best-effort output samples, labeled by result.",
	},
	[]string{"result"}, // 'ok', 'unknown', 'error'
)

func ObservePoll(outcome string, latencyMs int64) {
	pollsTotal.WithLabelValues(norm(outcome)).Inc()
	pollLatencyMs.Observe(float64(latencyMs))
}

func IncOutputSample(result string) {
	outputSamplesTotal.WithLabelValues(norm(result)).Inc()
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
