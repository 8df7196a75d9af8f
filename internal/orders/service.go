package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/auth"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
	"github.com/autofixhq/workshop-backend/pkg/outbox"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
	"github.com/autofixhq/workshop-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// InventoryLedger reserves and releases part stock inside the order transaction.
type InventoryLedger interface {
	Reserve(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) (*models.InventoryItem, error)
	Release(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) (*models.InventoryItem, error)
}

// Service defines the work-order operations exposed to controllers.
type Service interface {
	CreateOrder(ctx context.Context, actor auth.Actor, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, actor auth.Actor, params pagination.Params, filters OrderFilters) (*OrderList, error)
	UpdateOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input UpdateOrderInput) (*models.Order, error)
	SetStatus(ctx context.Context, actor auth.Actor, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error)
	AddItem(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input AddItemInput) (*models.OrderItem, error)
	UpdateItemQuantity(ctx context.Context, actor auth.Actor, orderID, itemID uuid.UUID, newQuantity int) (*models.OrderItem, error)
	RemoveItem(ctx context.Context, actor auth.Actor, orderID, itemID uuid.UUID) error
}

type service struct {
	repo      Repository
	tx        txRunner
	outbox    outboxPublisher
	inventory InventoryLedger
	taxRate   decimal.Decimal
	now       func() time.Time
}

// NewService builds an order service with the required dependencies. The tax
// rate comes from workshop configuration and is a fraction in [0, 1].
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, inventory InventoryLedger, taxRate decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("tax rate must be within [0, 1]")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		outbox:    outboxSvc,
		inventory: inventory,
		taxRate:   taxRate,
		now:       time.Now,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, actor auth.Actor, input CreateOrderInput) (*models.Order, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	if input.VehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		number, err := repo.NextOrderNumber(ctx, actor.WorkshopID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}

		order := &models.Order{
			ID:                    uuid.New(),
			OrderNumber:           number,
			WorkshopID:            actor.WorkshopID,
			ClientID:              input.ClientID,
			VehicleID:             input.VehicleID,
			TechnicianID:          input.TechnicianID,
			Status:                enums.OrderStatusReception,
			Description:           description,
			Notes:                 input.Notes,
			EstimatedCompletionAt: input.EstimatedCompletionAt,
		}
		if created, err = repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         actorRef(actor),
			Data: OrderCreatedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				WorkshopID:  order.WorkshopID,
				ClientID:    order.ClientID,
				VehicleID:   order.VehicleID,
				Status:      order.Status,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) GetOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*models.Order, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, actor.WorkshopID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, actor auth.Actor, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, actor.WorkshopID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) UpdateOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input UpdateOrderInput) (*models.Order, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.DiscountCents != nil && *input.DiscountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized payment status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, actor.WorkshopID, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is in a terminal status")
		}

		updates := map[string]any{}
		if input.Description != nil {
			description := strings.TrimSpace(*input.Description)
			if description == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "description cannot be empty")
			}
			updates["description"] = description
		}
		if input.Diagnosis != nil {
			updates["diagnosis"] = *input.Diagnosis
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if input.TechnicianID != nil {
			updates["technician_id"] = *input.TechnicianID
		}
		if input.PaymentStatus != nil {
			updates["payment_status"] = *input.PaymentStatus
		}
		if input.EstimatedCompletionAt != nil {
			updates["estimated_completion_at"] = *input.EstimatedCompletionAt
		}
		if input.PhotoKeys != nil {
			updates["photo_keys"] = types.StringList(input.PhotoKeys)
		}
		if input.DiscountCents != nil && *input.DiscountCents != order.DiscountCents {
			totals := ComputeTotals(order.Items, s.taxRate, *input.DiscountCents)
			updates["subtotal_cents"] = totals.SubtotalCents
			updates["tax_cents"] = totals.TaxCents
			updates["discount_cents"] = totals.DiscountCents
			updates["total_cents"] = totals.TotalCents
		}

		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		updated, err = repo.FindOrder(ctx, actor.WorkshopID, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) SetStatus(ctx context.Context, actor auth.Actor, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, actor.WorkshopID, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := CheckTransition(order.Status, next); err != nil {
			return err
		}
		if order.Status == next {
			updated = order
			return nil
		}

		now := s.now().UTC()
		updates := transitionStamps(next, now)
		updates["status"] = next
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         actorRef(actor),
			Data: OrderStatusChangedEvent{
				OrderID:    order.ID,
				WorkshopID: order.WorkshopID,
				From:       order.Status,
				To:         next,
			},
		}); err != nil {
			return err
		}

		updated, err = repo.FindOrder(ctx, actor.WorkshopID, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) AddItem(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input AddItemInput) (*models.OrderItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitPriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	var created *models.OrderItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadMutableOrder(ctx, repo, actor.WorkshopID, orderID)
		if err != nil {
			return err
		}

		if input.InventoryItemID != nil {
			if _, err := s.inventory.Reserve(ctx, tx, *input.InventoryItemID, input.Quantity); err != nil {
				return err
			}
		}

		item := &models.OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			InventoryItemID: input.InventoryItemID,
			Name:            name,
			Quantity:        input.Quantity,
			UnitPriceCents:  input.UnitPriceCents,
			TotalCents:      input.Quantity * input.UnitPriceCents,
			Status:          enums.OrderItemStatusPending,
		}
		if created, err = repo.CreateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order item")
		}

		totals, err := s.recomputeTotals(ctx, repo, order)
		if err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderItemAdded,
			AggregateType: enums.AggregateOrderItem,
			AggregateID:   item.ID,
			Version:       1,
			Actor:         actorRef(actor),
			Data: OrderItemChangedEvent{
				OrderID:         order.ID,
				OrderItemID:     item.ID,
				WorkshopID:      order.WorkshopID,
				InventoryItemID: item.InventoryItemID,
				Quantity:        item.Quantity,
				SubtotalCents:   totals.SubtotalCents,
				TotalCents:      totals.TotalCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, actor auth.Actor, orderID, itemID uuid.UUID, newQuantity int) (*models.OrderItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if orderID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id required")
	}
	if newQuantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var updated *models.OrderItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadMutableOrder(ctx, repo, actor.WorkshopID, orderID)
		if err != nil {
			return err
		}
		item, err := s.loadOrderItem(ctx, repo, order.ID, itemID)
		if err != nil {
			return err
		}

		delta := newQuantity - item.Quantity
		if delta == 0 {
			updated = item
			return nil
		}
		if item.InventoryItemID != nil {
			if delta > 0 {
				if _, err := s.inventory.Reserve(ctx, tx, *item.InventoryItemID, delta); err != nil {
					return err
				}
			} else {
				if _, err := s.inventory.Release(ctx, tx, *item.InventoryItemID, -delta); err != nil {
					return err
				}
			}
		}

		updates := map[string]any{
			"quantity":    newQuantity,
			"total_cents": newQuantity * item.UnitPriceCents,
		}
		if err := repo.UpdateItem(ctx, item.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order item")
		}

		totals, err := s.recomputeTotals(ctx, repo, order)
		if err != nil {
			return err
		}
		updated, err = repo.FindItem(ctx, item.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order item")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderItemUpdated,
			AggregateType: enums.AggregateOrderItem,
			AggregateID:   item.ID,
			Version:       1,
			Actor:         actorRef(actor),
			Data: OrderItemChangedEvent{
				OrderID:         order.ID,
				OrderItemID:     item.ID,
				WorkshopID:      order.WorkshopID,
				InventoryItemID: item.InventoryItemID,
				Quantity:        newQuantity,
				SubtotalCents:   totals.SubtotalCents,
				TotalCents:      totals.TotalCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) RemoveItem(ctx context.Context, actor auth.Actor, orderID, itemID uuid.UUID) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if orderID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id and item id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadMutableOrder(ctx, repo, actor.WorkshopID, orderID)
		if err != nil {
			return err
		}
		item, err := s.loadOrderItem(ctx, repo, order.ID, itemID)
		if err != nil {
			return err
		}

		if item.InventoryItemID != nil && item.Quantity > 0 {
			if _, err := s.inventory.Release(ctx, tx, *item.InventoryItemID, item.Quantity); err != nil {
				return err
			}
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order item")
		}

		totals, err := s.recomputeTotals(ctx, repo, order)
		if err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderItemRemoved,
			AggregateType: enums.AggregateOrderItem,
			AggregateID:   item.ID,
			Version:       1,
			Actor:         actorRef(actor),
			Data: OrderItemChangedEvent{
				OrderID:         order.ID,
				OrderItemID:     item.ID,
				WorkshopID:      order.WorkshopID,
				InventoryItemID: item.InventoryItemID,
				Quantity:        0,
				SubtotalCents:   totals.SubtotalCents,
				TotalCents:      totals.TotalCents,
			},
		})
	})
}

// loadMutableOrder fetches an order and rejects item edits once the order
// reached a terminal status.
func (s *service) loadMutableOrder(ctx context.Context, repo Repository, workshopID, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindOrder(ctx, workshopID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order items cannot change in a terminal status")
	}
	return order, nil
}

func (s *service) loadOrderItem(ctx context.Context, repo Repository, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	item, err := repo.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order item")
	}
	if item.OrderID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to order")
	}
	return item, nil
}

// recomputeTotals reloads the order's line items and persists the derived
// financial snapshot.
func (s *service) recomputeTotals(ctx context.Context, repo Repository, order *models.Order) (Totals, error) {
	items, err := repo.FindItemsByOrder(ctx, order.ID)
	if err != nil {
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload line items")
	}
	totals := ComputeTotals(items, s.taxRate, order.DiscountCents)
	updates := map[string]any{
		"subtotal_cents": totals.SubtotalCents,
		"tax_cents":      totals.TaxCents,
		"discount_cents": totals.DiscountCents,
		"total_cents":    totals.TotalCents,
	}
	if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order totals")
	}
	return totals, nil
}

func requireStaff(actor auth.Actor) error {
	if err := requireMember(actor); err != nil {
		return err
	}
	if !actor.IsStaff() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	return nil
}

func requireMember(actor auth.Actor) error {
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if actor.WorkshopID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeForbidden, "workshop context missing")
	}
	return nil
}

func actorRef(actor auth.Actor) *outbox.ActorRef {
	workshop := actor.WorkshopID
	return &outbox.ActorRef{
		UserID:     actor.UserID,
		WorkshopID: &workshop,
		Role:       string(actor.Role),
	}
}
