package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequests counts outgoing API requests by status code and method
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rtb_api_requests_total",
		Help: "The total number of Real-time Bidding API requests",
	}, []string{"code", "method"})

	// APIRequestDuration tracks outgoing API request latency
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rtb_api_request_duration_seconds",
		Help:    "Duration of Real-time Bidding API requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// APIRequestsInFlight tracks requests waiting on a response
	APIRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rtb_api_requests_in_flight",
		Help: "The number of Real-time Bidding API requests in flight",
	})

	// PagesFetched counts list pages retrieved per resource
	PagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rtb_list_pages_fetched_total",
		Help: "The total number of list pages fetched",
	}, []string{"resource"})

	// APIRetries counts retried read requests
	APIRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtb_api_retries_total",
		Help: "The total number of retried API reads",
	})

	// PubsubMessagesPulled counts messages pulled from subscriptions
	PubsubMessagesPulled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtb_pubsub_messages_pulled_total",
		Help: "The total number of Pub/Sub messages pulled",
	})

	// PubsubMessagesAcked counts acknowledged messages
	PubsubMessagesAcked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtb_pubsub_messages_acked_total",
		Help: "The total number of Pub/Sub messages acknowledged",
	})

	// HTTPRequestDuration tracks request durations served by the fake API
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rtb_fake_http_request_duration_seconds",
		Help:    "Duration of HTTP requests served by the fake API in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})
)

// InstrumentTransport wraps next so every request updates the API metrics
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(APIRequestsInFlight,
		promhttp.InstrumentRoundTripperCounter(APIRequests,
			promhttp.InstrumentRoundTripperDuration(APIRequestDuration, next)))
}

// WriteTextfile writes the default registry in text exposition format,
// for collection by a node exporter textfile collector
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
