package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "honey_biz",
	Subsystem: "notify",
	Name:      "notifications_total",
	Help:      "Staff notifications by channel and result.",
}, []string{"channel", "result"})
