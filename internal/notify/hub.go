package notify

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Publisher sends a payload to every live connection of one user.
type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, payload []byte) error
}

// Event is the envelope pushed over the websocket.
type Event struct {
	Type    string        `json:"type"`
	Message string        `json:"message"`
	Data    LowStockAlert `json:"data"`
}

// HubNotifier pushes alerts to the product owner's websocket clients.
type HubNotifier struct {
	hub Publisher
}

func NewHubNotifier(hub Publisher) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Name() string { return "websocket" }

func (n *HubNotifier) NotifyLowStock(ctx context.Context, alert LowStockAlert) error {
	payload, err := json.Marshal(Event{Type: "low_stock", Message: alert.Message(), Data: alert})
	if err != nil {
		return err
	}
	return n.hub.Publish(ctx, alert.OwnerID, payload)
}
