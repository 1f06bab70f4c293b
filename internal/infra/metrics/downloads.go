package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(downloadsTotal, activeSessions) }

var downloadsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "spodown_downloads_total",
		Help: "Download jobs that reached a terminal phase, labeled by phase.",
	},
	[]string{"phase"}, // 'complete', 'cancelled', 'failed'
)

var activeSessions = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "spodown_active_sessions",
		Help: "Job sessions currently owned by a progress poller.",
	},
)

func IncDownload(phase string) {
	downloadsTotal.WithLabelValues(norm(phase)).Inc()
}

func SessionStarted()  { activeSessions.Inc() }
func SessionFinished() { activeSessions.Dec() }
