package owonecall

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// This file defines the Prometheus metrics recorded by the client.
// They register on the default registry, so an application serving
// promhttp.Handler() exposes them without further wiring.

// requestsTotal counts finished requests by endpoint ("onecall" or "timemachine")
// and outcome ("ok" or an ErrorKind name).
var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "owonecall_requests_total",
	Help: "Total number of One Call API requests by endpoint and outcome.",
}, []string{"endpoint", "outcome"})

// requestDuration observes the time from sending a request to classifying its result.
var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "owonecall_request_duration_seconds",
	Help:    "Duration of One Call API requests by endpoint.",
	Buckets: prometheus.DefBuckets,
}, []string{"endpoint"})

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return KindOf(err).String()
}
