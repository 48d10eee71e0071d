package messaging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/core/domain"
)

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e domain.Event) error {
	p.log.Info().
		Str("type", string(e.Type)).
		Str("key", e.Key).
		Interface("attributes", e.Attributes).
		Msg("event")
	return nil
}
