// Package notify delivers low-stock alerts. The inventory service calls a
// Notifier after a quantity change has been committed.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// LowStockAlert describes a product whose quantity reached its reorder level.
type LowStockAlert struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	StoreID      uuid.UUID `json:"store_id"`
	StoreName    string    `json:"store_name"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Quantity     int       `json:"quantity"`
	ReorderLevel int       `json:"reorder_level"`
	At           time.Time `json:"at"`
}

// Message is the human readable form of the alert.
func (a LowStockAlert) Message() string {
	return fmt.Sprintf("Low stock alert for %s at %s. Current quantity: %d", a.Name, a.StoreName, a.Quantity)
}

type Notifier interface {
	NotifyLowStock(ctx context.Context, alert LowStockAlert) error
}

// Name returns a short label for logs and errors.
func Name(n Notifier) string {
	if named, ok := n.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", n)
}

// Multi fans an alert out to every notifier. All of them are called even if
// some fail; the failures are combined.
type Multi []Notifier

func (m Multi) Name() string { return "multi" }

func (m Multi) NotifyLowStock(ctx context.Context, alert LowStockAlert) error {
	var err error
	for _, n := range m {
		if nErr := n.NotifyLowStock(ctx, alert); nErr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", Name(n), nErr))
		}
	}
	return err
}

// Nop discards alerts.
type Nop struct{}

func (Nop) Name() string { return "nop" }

func (Nop) NotifyLowStock(context.Context, LowStockAlert) error { return nil }
