package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"

	OrderCreated = "order_created"
	OrderUpdated = "order_updated"
	OrderDeleted = "order_deleted"
)

type ProductEvent struct {
	Type      string                     `json:"type"`
	ProductID uint                       `json:"product_id"`
	Product   *transport.ProductResponse `json:"product,omitempty"`
	At        time.Time                  `json:"at"`
}

type OrderEvent struct {
	Type    string                   `json:"type"`
	OrderID uuid.UUID                `json:"order_id"`
	Order   *transport.OrderResponse `json:"order,omitempty"`
	At      time.Time                `json:"at"`
}

// publish never fails the caller: the write already committed.
func publish(ctx context.Context, pub events.Publisher, topic, key string, event any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "key", key, "error", err)
	}
}
