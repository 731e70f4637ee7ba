package api

// Prometheus metrics for the access layer. Registered with the default
// registry at package load; exposed by the ops listener when enabled.

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// RequestsTotal counts completed requests.
// Labels:
//   - method: HTTP method
//   - class: status class ("2xx", "4xx", "5xx")
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of backend requests that received a response.",
	},
	[]string{"method", "class"},
)

// RequestErrorsTotal counts failed requests by error kind.
// Label:
//   - kind: "network", "api", "auth", "validation", "unknown"
var RequestErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_errors_total",
		Help:      "Total number of backend requests that failed, by error kind.",
	},
	[]string{"kind"},
)

// CacheTotal counts cache lookups for cached reads.
// Label:
//   - result: "hit" or "miss"
var CacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_total",
		Help:      "Total number of read-cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// TeardownsTotal counts forced session teardowns triggered by 401 responses.
var TeardownsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_teardowns_total",
		Help:      "Total number of forced session teardowns after an authentication rejection.",
	},
)
