package event

import (
	"context"
	"log/slog"
)

const TopicStockChanged = "inventory.stock_changed"

// StockChangedEvent records the outcome of a purchase for audit consumption.
type StockChangedEvent struct {
	ProductID int64 `json:"producto_id"`
	Delta     int64 `json:"delta"`
	Quantity  int64 `json:"cantidad"`
}

func (s *Service) handleStockChangedEvent(ctx context.Context, ev StockChangedEvent) error {
	s.logger.InfoContext(ctx, "stock changed",
		slog.Int64("producto_id", ev.ProductID),
		slog.Int64("delta", ev.Delta),
		slog.Int64("cantidad", ev.Quantity),
	)
	return nil
}
