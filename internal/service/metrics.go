package service

import "github.com/prometheus/client_golang/prometheus"

var InvocationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bomb_royale_invocations_total",
		Help: "Total service invocations by operation and result code",
	},
	[]string{"op", "code"},
)

func init() {
	prometheus.MustRegister(InvocationsTotal)
}
