package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/internal/inventory"
	"github.com/autofixhq/workshop-backend/internal/orders"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	"github.com/autofixhq/workshop-backend/pkg/logger"
	"github.com/autofixhq/workshop-backend/pkg/outbox"
	"github.com/autofixhq/workshop-backend/pkg/outbox/idempotency"
)

const consumerName = "workshop-notifications"

type consumerRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches domain events and records the in-app notifications staff see.
type Consumer struct {
	repo         consumerRepository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds the workshop notification consumer.
func NewConsumer(repo consumerRepository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg.Attributes["event_type"], msg.Data, msg.ID)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, eventType string, data []byte, messageID string) processResult {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": messageID,
		"event_type": eventType,
	})

	handler := c.handlerFor(eventType)
	if handler == nil {
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, consumerName, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := handler(ctx, envelope.Data); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, consumerName, eventID)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}

func (c *Consumer) handlerFor(eventType string) func(context.Context, json.RawMessage) error {
	switch eventType {
	case string(enums.EventOrderStatusChanged):
		return c.handleOrderStatusChanged
	case string(enums.EventInventoryLowStock):
		return c.handleLowStock
	default:
		return nil
	}
}

func (c *Consumer) handleOrderStatusChanged(ctx context.Context, data json.RawMessage) error {
	var payload orders.OrderStatusChangedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse order status payload: %w", err)
	}
	if payload.WorkshopID == uuid.Nil || payload.OrderID == uuid.Nil {
		return fmt.Errorf("order status payload missing ids")
	}

	var title, message string
	switch payload.To {
	case enums.OrderStatusCompleted:
		title = "Order ready for pickup"
		message = fmt.Sprintf("Order %s passed quality check and is ready for the client.", payload.OrderID)
	case enums.OrderStatusCancelled:
		title = "Order cancelled"
		message = fmt.Sprintf("Order %s was cancelled while in %s.", payload.OrderID, payload.From)
	case enums.OrderStatusWaitingParts:
		title = "Order waiting on parts"
		message = fmt.Sprintf("Order %s is blocked waiting for parts.", payload.OrderID)
	default:
		return nil
	}

	link := fmt.Sprintf("/orders/%s", payload.OrderID)
	return c.repo.Create(ctx, &models.Notification{
		WorkshopID: payload.WorkshopID,
		Type:       enums.NotificationTypeOrder,
		Title:      title,
		Message:    message,
		Link:       &link,
	})
}

func (c *Consumer) handleLowStock(ctx context.Context, data json.RawMessage) error {
	var payload inventory.LowStockEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse low stock payload: %w", err)
	}
	if payload.WorkshopID == uuid.Nil || payload.ItemID == uuid.Nil {
		return fmt.Errorf("low stock payload missing ids")
	}

	link := fmt.Sprintf("/inventory/%s", payload.ItemID)
	message := fmt.Sprintf("%s (%s) is down to %d units, below the minimum of %d.",
		payload.Name, payload.SKU, payload.Stock, payload.MinStock)
	return c.repo.Create(ctx, &models.Notification{
		WorkshopID: payload.WorkshopID,
		Type:       enums.NotificationTypeInventory,
		Title:      "Low stock alert",
		Message:    message,
		Link:       &link,
	})
}
