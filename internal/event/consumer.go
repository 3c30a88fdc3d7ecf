// Package event consumes catalog domain events and keeps the search index
// in step with them.
package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/chandan1708/AI-Enabled-E-commerce/pkg/kafka"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/sync"
)

// Topics consumed from the product and inventory domains.
const (
	TopicProductCreated = "ecommerce.product.created"
	TopicProductUpdated = "ecommerce.product.updated"
	TopicProductDeleted = "ecommerce.product.deleted"
	TopicStockAdjusted  = "ecommerce.inventory.stock_adjusted"
)

// Topics lists every topic the consumer subscribes to.
func Topics() []string {
	return []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted, TopicStockAdjusted}
}

// ProductEventData is the payload of product created/updated/deleted
// events. Only the ID matters: the catalog is re-read so the index never
// trusts a possibly stale event body.
type ProductEventData struct {
	ID string `json:"id"`
}

// StockAdjustedData is the payload of an inventory stock adjustment.
type StockAdjustedData struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Consumer routes catalog events to the sync orchestrator.
type Consumer struct {
	orchestrator *sync.Orchestrator
	logger       *slog.Logger
}

// NewConsumer creates an event consumer.
func NewConsumer(orchestrator *sync.Orchestrator, logger *slog.Logger) *Consumer {
	return &Consumer{orchestrator: orchestrator, logger: logger}
}

// Handle processes one event based on its type. Unknown types are logged
// and acknowledged so a topic addition upstream never wedges the consumer.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicProductCreated, TopicProductUpdated:
		return c.handleProductChanged(ctx, event)
	case TopicProductDeleted:
		return c.handleProductDeleted(ctx, event)
	case TopicStockAdjusted:
		return c.handleStockAdjusted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (c *Consumer) handleProductChanged(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductEventData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}
	if data.ID == "" {
		return fmt.Errorf("%s event %s has no product id", event.EventType, event.EventID)
	}

	if err := c.orchestrator.SyncOne(ctx, data.ID); err != nil {
		return fmt.Errorf("sync product from %s event: %w", event.EventType, err)
	}

	c.logger.InfoContext(ctx, "product synced from event",
		slog.String("event_type", event.EventType),
		slog.String("product_id", data.ID),
	)
	return nil
}

func (c *Consumer) handleProductDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductEventData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal product.deleted data: %w", err)
	}
	if data.ID == "" {
		return fmt.Errorf("product.deleted event %s has no product id", event.EventID)
	}

	if err := c.orchestrator.DeleteOne(ctx, data.ID); err != nil {
		return fmt.Errorf("delete product from deleted event: %w", err)
	}

	c.logger.InfoContext(ctx, "product removed from index from event",
		slog.String("product_id", data.ID),
	)
	return nil
}

func (c *Consumer) handleStockAdjusted(ctx context.Context, event *pkgkafka.Event) error {
	var data StockAdjustedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal stock_adjusted data: %w", err)
	}
	if data.ProductID == "" {
		return fmt.Errorf("stock_adjusted event %s has no product id", event.EventID)
	}

	if err := c.orchestrator.UpdateStock(ctx, data.ProductID, data.Quantity); err != nil {
		return fmt.Errorf("update stock from event: %w", err)
	}
	return nil
}
