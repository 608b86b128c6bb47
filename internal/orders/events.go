package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// Envelope is the versioned wrapper around every event this service
// writes to Kafka. CorrelationID is the order id.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID   string     `json:"order_id"`
	TenantKey string     `json:"tenant_key"`
	Items     []LineItem `json:"items"`
	Total     int        `json:"total"`
}

type OrderStatusChangedPayload struct {
	OrderID   string     `json:"order_id"`
	TenantKey string     `json:"tenant_key"`
	Status    Status     `json:"status"`
	Items     []LineItem `json:"items,omitempty"`
}
