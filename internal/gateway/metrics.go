package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	repliesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guidechat_gateway",
			Name:      "replies_total",
			Help:      "Generation calls that produced usable text.",
		},
	)

	fallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidechat_gateway",
			Name:      "fallbacks_total",
			Help:      "Generation calls resolved with a fallback message.",
		},
		[]string{"kind"},
	)
)
