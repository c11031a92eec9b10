package events

import (
	"context"

	"bomb_royale/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

var EventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bomb_royale_events_total",
		Help: "Total game events published",
	},
	[]string{"name"},
)

func init() {
	prometheus.MustRegister(EventsTotal)
}

type MetricsSink struct{}

func (MetricsSink) Publish(_ context.Context, evs ...domain.Event) {
	for _, e := range evs {
		EventsTotal.WithLabelValues(e.Name).Inc()
	}
}
