package models

import "time"

// Product lifecycle event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is published after a successful product write.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"product_id"`
	Images     []string  `json:"images,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
