package model

import "time"

type OrderEventType string

const (
	OrderCreated   OrderEventType = "order_created"
	OrderUpdated   OrderEventType = "order_updated"
	OrderCancelled OrderEventType = "order_cancelled"
	OrderDeleted   OrderEventType = "order_deleted"
)

// OrderEvent se publica después de cada escritura confirmada sobre una orden.
type OrderEvent struct {
	Event      OrderEventType `json:"event"`
	TrackingID string         `json:"tracking_id"`
	OwnerEmail string         `json:"owner_email"`
	Status     Status         `json:"status"`
	Message    *string        `json:"message,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
