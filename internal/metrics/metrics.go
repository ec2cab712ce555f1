// Package metrics exposes prometheus collectors for calls to the words API and
// for the outcome of profile store actions.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelAction  = "action"
	LabelOutcome = "outcome"
)

// Outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeSwallowed = "swallowed"
	OutcomeFallback  = "fallback"
)

// StatusTransportError labels calls that produced no HTTP response.
const StatusTransportError = "transport_error"

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordprofile_api_requests_total",
			Help: "Total number of calls made to the words API.",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wordprofile_api_request_duration_seconds",
			Help:    "Duration of calls made to the words API.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{LabelMethod, LabelPath},
	)

	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordprofile_actions_total",
			Help: "Profile store actions by outcome.",
		},
		[]string{LabelAction, LabelOutcome},
	)

	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordprofile_alerts_total",
			Help: "Alerts dispatched to the UI by status.",
		},
		[]string{LabelStatus},
	)
)

// ObserveAPICall records one call to the words API. A zero statusCode means
// the call failed before a response arrived.
func ObserveAPICall(method, path string, statusCode int, duration time.Duration) {
	status := StatusTransportError
	if statusCode != 0 {
		status = strconv.Itoa(statusCode)
	}
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveAction records the outcome of a profile store action.
func ObserveAction(action, outcome string) {
	ActionsTotal.WithLabelValues(action, outcome).Inc()
}
