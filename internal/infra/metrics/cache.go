package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(sessionReadsTotal) }

var sessionReadsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "session_reads_total",
		Help: "Session store reads by key and result.",
	},
	[]string{"key", "result"}, // e.g., key="access_token", result="hit"
)

func IncSessionRead(key, result string) {
	sessionReadsTotal.WithLabelValues(norm(key), norm(result)).Inc()
}
