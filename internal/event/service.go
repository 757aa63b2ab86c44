package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tienda-labs/tienda/internal/storage/mq"
)

// Service consumes the audit events published through the outbox.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(
		TopicStockChanged,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev StockChangedEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal stock changed event: %w", err)
			}

			if err := s.handleStockChangedEvent(ctx, ev); err != nil {
				return fmt.Errorf("handle stock changed event: %w", err)
			}

			return nil
		},
	); err != nil {
		return nil, fmt.Errorf("register stock changed event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}
