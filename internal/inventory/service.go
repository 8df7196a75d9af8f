package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/auth"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

const defaultMinStock = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the inventory ledger operations.
type Service interface {
	CreateItem(ctx context.Context, actor auth.Actor, input CreateItemInput) (*models.InventoryItem, error)
	GetItem(ctx context.Context, actor auth.Actor, itemID uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, actor auth.Actor, params pagination.Params, filters ItemFilters) (*ItemList, error)
	UpdateItem(ctx context.Context, actor auth.Actor, itemID uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, actor auth.Actor, itemID uuid.UUID) error
	ListLowStock(ctx context.Context, actor auth.Actor) ([]models.InventoryItem, error)

	// Reserve and Release run inside the caller's transaction so stock
	// adjustments commit or roll back together with order mutations.
	// Both return the row as adjusted inside that transaction.
	Reserve(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) (*models.InventoryItem, error)
	Release(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) (*models.InventoryItem, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateItem(ctx context.Context, actor auth.Actor, input CreateItemInput) (*models.InventoryItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	input.SKU = strings.TrimSpace(input.SKU)
	input.Name = strings.TrimSpace(input.Name)
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if input.UnitPriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	minStock := defaultMinStock
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min stock cannot be negative")
		}
		minStock = *input.MinStock
	}

	item := &models.InventoryItem{
		ID:             uuid.New(),
		WorkshopID:     actor.WorkshopID,
		SKU:            input.SKU,
		Name:           input.Name,
		Category:       input.Category,
		Stock:          input.Stock,
		MinStock:       minStock,
		UnitPriceCents: input.UnitPriceCents,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}
	return created, nil
}

func (s *service) GetItem(ctx context.Context, actor auth.Actor, itemID uuid.UUID) (*models.InventoryItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindByID(ctx, actor.WorkshopID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context, actor auth.Actor, params pagination.Params, filters ItemFilters) (*ItemList, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, actor.WorkshopID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory items")
	}
	return list, nil
}

func (s *service) UpdateItem(ctx context.Context, actor auth.Actor, itemID uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *input.Stock
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min stock cannot be negative")
		}
		updates["min_stock"] = *input.MinStock
	}
	if input.UnitPriceCents != nil {
		if *input.UnitPriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		updates["unit_price_cents"] = *input.UnitPriceCents
	}

	var updated *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindByID(ctx, actor.WorkshopID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}
		if len(updates) == 0 {
			updated = item
			return nil
		}
		if err := repo.Update(ctx, item.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
		}
		updated, err = repo.FindByID(ctx, actor.WorkshopID, itemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload inventory item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) DeleteItem(ctx context.Context, actor auth.Actor, itemID uuid.UUID) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if err := s.repo.Delete(ctx, actor.WorkshopID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
	}
	return nil
}

func (s *service) ListLowStock(ctx context.Context, actor auth.Actor) ([]models.InventoryItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListLowStock(ctx, actor.WorkshopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock items")
	}
	return rows, nil
}

// Reserve decrements stock for the item, failing when the remaining stock
// cannot cover the requested quantity. The decrement is conditional so
// concurrent reservations can never drive stock negative.
func (s *service) Reserve(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) (*models.InventoryItem, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reserve quantity must be positive")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory reserve")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET stock = stock - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, qty, itemID, qty)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve inventory")
	}

	var item models.InventoryItem
	err := tx.WithContext(ctx).First(&item, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	if res.RowsAffected > 0 {
		return &item, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{
			"item_id":   itemID.String(),
			"requested": qty,
			"available": item.Stock,
		})
}

// Release returns previously reserved stock. It only increments, so a
// release can never fail a stock check.
func (s *service) Release(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) (*models.InventoryItem, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "release quantity must be positive")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory release")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET stock = stock + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, itemID)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release inventory")
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}

	var item models.InventoryItem
	if err := tx.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload inventory item")
	}
	return &item, nil
}

func requireStaff(actor auth.Actor) error {
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if actor.WorkshopID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeForbidden, "workshop context missing")
	}
	if !actor.IsStaff() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	return nil
}
