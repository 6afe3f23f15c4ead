package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryReport summarises a scope's stock value and recent activity.
type InventoryReport struct {
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	LowStockItemsCount  int64           `json:"low_stock_items_count"`
	Sales               int             `json:"sales"`
	Restocks            int             `json:"restocks"`
	WindowDays          int             `json:"window_days"`
	From                time.Time       `json:"from"`
	To                  time.Time       `json:"to"`
}

// ToResponse renders the report with window-dependent keys, e.g.
// sales_last_30_days.
func (r *InventoryReport) ToResponse() map[string]interface{} {
	return map[string]interface{}{
		"total_inventory_value":                            r.TotalInventoryValue.StringFixed(2),
		"low_stock_items_count":                            r.LowStockItemsCount,
		fmt.Sprintf("sales_last_%d_days", r.WindowDays):    r.Sales,
		fmt.Sprintf("restocks_last_%d_days", r.WindowDays): r.Restocks,
		"window_days": r.WindowDays,
		"from":        r.From,
		"to":          r.To,
	}
}

// StockMovementData is one day of the movement chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}
