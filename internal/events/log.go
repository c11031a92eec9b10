package events

import (
	"context"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/logger"
)

type LogSink struct{}

func (LogSink) Publish(_ context.Context, evs ...domain.Event) {
	for _, e := range evs {
		logger.Info("game event",
			"event", e.Name,
			"token", e.Token,
			"actor", e.Actor,
			"tx", e.ID,
			"data", e.Data,
		)
	}
}
