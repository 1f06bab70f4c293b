package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(chatRefreshesTotal, chatSendsTotal) }

var chatRefreshesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "spodown_chat_refreshes_total",
		Help: "Chat feed refreshes, labeled by result.",
	},
	[]string{"result"}, // 'ok', 'error'
)

var chatSendsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "spodown_chat_sends_total",
		Help: "Chat messages sent, labeled by result.",
	},
	[]string{"result"},
)

func IncChatRefresh(result string) {
	chatRefreshesTotal.WithLabelValues(norm(result)).Inc()
}

func IncChatSend(result string) {
	chatSendsTotal.WithLabelValues(norm(result)).Inc()
}
