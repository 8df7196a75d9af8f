package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/internal/inventory"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	"github.com/autofixhq/workshop-backend/pkg/logger"
	"github.com/autofixhq/workshop-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type lowStockSource interface {
	ListLowStockAll(ctx context.Context) ([]models.InventoryItem, error)
}

type lowStockEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// LowStockJobParams configure the low-stock sweep.
type LowStockJobParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Inventory lowStockSource
	Outbox    lowStockEmitter
}

// NewLowStockJob builds the job that raises one low-stock event per
// depleted part. EmitIfNotExists keeps the sweep idempotent across runs.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory source required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &lowStockJob{
		logg:      params.Logger,
		db:        params.DB,
		inventory: params.Inventory,
		outbox:    params.Outbox,
	}, nil
}

type lowStockJob struct {
	logg      *logger.Logger
	db        txRunner
	inventory lowStockSource
	outbox    lowStockEmitter
}

func (j *lowStockJob) Name() string { return "low-stock-sweep" }

func (j *lowStockJob) Run(ctx context.Context) error {
	items, err := j.inventory.ListLowStockAll(ctx)
	if err != nil {
		return fmt.Errorf("list low stock items: %w", err)
	}
	if len(items) == 0 {
		j.logg.Info(ctx, "no items below reorder threshold")
		return nil
	}

	emitted := 0
	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, item := range items {
			event := outbox.DomainEvent{
				EventType:     enums.EventInventoryLowStock,
				AggregateType: enums.AggregateInventoryItem,
				AggregateID:   item.ID,
				Version:       1,
				Data: inventory.LowStockEvent{
					ItemID:     item.ID,
					WorkshopID: item.WorkshopID,
					SKU:        item.SKU,
					Name:       item.Name,
					Stock:      item.Stock,
					MinStock:   item.MinStock,
				},
			}
			if err := j.outbox.EmitIfNotExists(ctx, tx, event); err != nil {
				return fmt.Errorf("emit low stock for %s: %w", item.ID, err)
			}
			emitted++
		}
		return nil
	})
	if err != nil {
		return err
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"items_low": len(items),
		"emitted":   emitted,
	})
	j.logg.Info(logCtx, "low stock sweep complete")
	return nil
}
