package dashboard

import (
	"time"

	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
)

// OrderSnapshot is the slice of an order the aggregator folds over.
type OrderSnapshot struct {
	Status      enums.OrderStatus `gorm:"column:status"`
	TotalCents  int               `gorm:"column:total_cents"`
	Description string            `gorm:"column:description"`
	CompletedAt *time.Time        `gorm:"column:completed_at"`
	DeliveredAt *time.Time        `gorm:"column:delivered_at"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at"`
}

// RevenueBucket is one day's or month's share of recognized revenue.
type RevenueBucket struct {
	Key   string `json:"key"`
	Cents int64  `json:"cents"`
}

// RevenueReport covers revenue recognized on completed and delivered orders.
type RevenueReport struct {
	TotalCents int64           `json:"total_cents"`
	ByDay      []RevenueBucket `json:"by_day"`
	ByMonth    []RevenueBucket `json:"by_month"`
}

// DescriptionCount ranks a recurring order description by frequency.
type DescriptionCount struct {
	Description string `json:"description"`
	Count       int64  `json:"count"`
}

// Stats is the full dashboard snapshot returned to the frontend.
type Stats struct {
	StatusCounts        map[enums.OrderStatus]int64 `json:"status_counts"`
	Revenue             RevenueReport               `json:"revenue"`
	RevenueByStatus     map[enums.OrderStatus]int64 `json:"revenue_by_status"`
	LowStockItems       []models.InventoryItem      `json:"low_stock_items"`
	NewClientsThisMonth int64                       `json:"new_clients_this_month"`
	TopDescriptions     []DescriptionCount          `json:"top_descriptions"`
	AppointmentsToday   int64                       `json:"appointments_today"`
}
