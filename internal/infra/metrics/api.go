package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(apiRequestsTotal, apiRequestLatencyMs, geocodeLookupsTotal) }

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_client_requests_total",
			Help: "Outbound backend calls by endpoint and HTTP status (0 = transport error).",
		},
		[]string{"endpoint", "status"},
	)

	apiRequestLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_client_request_duration_ms",
			Help:    "Outbound backend call latency in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"endpoint"},
	)

	geocodeLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_lookups_total",
			Help: "Geocoding lookups by result (hit, miss, error).",
		},
		[]string{"result"},
	)
)

func ObserveAPIRequest(endpoint string, status int, latencyMs int64) {
	apiRequestsTotal.WithLabelValues(norm(endpoint), strconv.Itoa(status)).Inc()
	apiRequestLatencyMs.WithLabelValues(norm(endpoint)).Observe(float64(latencyMs))
}

func IncGeocode(result string) {
	geocodeLookupsTotal.WithLabelValues(norm(result)).Inc()
}
