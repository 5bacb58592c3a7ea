package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamErrCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meetings",
		Subsystem: "hubspot",
		Name:      "upstream_err_count",
	}, []string{"endpoint"})
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "meetings",
		Subsystem: "hubspot",
		Name:      "upstream_duration",
	}, []string{"endpoint"})
)
