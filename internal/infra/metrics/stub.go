package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(stubRequestsTotal) }

var stubRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stub_http_requests_total",
		Help: "Requests served by the development backend by route pattern and status.",
	},
	[]string{"route", "status"},
)

func IncStubRequest(route string, status int) {
	stubRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
