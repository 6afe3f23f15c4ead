package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes alerts to the application log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("low_stock")}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) NotifyLowStock(_ context.Context, alert LowStockAlert) error {
	n.log.Warn(alert.Message(),
		zap.String("product_id", alert.ProductID.String()),
		zap.String("store_id", alert.StoreID.String()),
		zap.Int("quantity", alert.Quantity),
		zap.Int("reorder_level", alert.ReorderLevel),
	)
	return nil
}
