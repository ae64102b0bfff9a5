package invoicing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "honey_biz",
	Subsystem: "invoicing",
	Name:      "call_duration_seconds",
	Help:      "Latency of calls to the invoicing provider.",
	Buckets:   prometheus.DefBuckets,
}, []string{"operation", "result"})
