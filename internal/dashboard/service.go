package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/pkg/auth"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
)

const defaultTopDescriptions = 5

// Service produces dashboard snapshots for a workshop. Every call computes
// a fresh snapshot; nothing is cached.
type Service interface {
	Stats(ctx context.Context, actor auth.Actor) (*Stats, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Stats(ctx context.Context, actor auth.Actor) (*Stats, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if actor.WorkshopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "workshop context missing")
	}

	snapshots, err := s.repo.OrderSnapshots(ctx, actor.WorkshopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order snapshots")
	}
	lowStock, err := s.repo.LowStockItems(ctx, actor.WorkshopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load low stock items")
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	newClients, err := s.repo.CountClientsSince(ctx, actor.WorkshopID, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count new clients")
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	appointments, err := s.repo.CountAppointmentsBetween(ctx, actor.WorkshopID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count appointments")
	}

	return &Stats{
		StatusCounts:        foldStatusCounts(snapshots),
		Revenue:             foldRevenue(snapshots),
		RevenueByStatus:     foldRevenueByStatus(snapshots),
		LowStockItems:       lowStock,
		NewClientsThisMonth: newClients,
		TopDescriptions:     topDescriptions(snapshots, defaultTopDescriptions),
		AppointmentsToday:   appointments,
	}, nil
}

// foldStatusCounts tallies orders per status. Every known status appears
// in the result so the frontend never deals with missing keys.
func foldStatusCounts(snapshots []OrderSnapshot) map[enums.OrderStatus]int64 {
	counts := make(map[enums.OrderStatus]int64, len(enums.OrderStatuses()))
	for _, status := range enums.OrderStatuses() {
		counts[status] = 0
	}
	for _, snap := range snapshots {
		counts[snap.Status]++
	}
	return counts
}

// revenueDate picks the moment revenue was recognized for an order.
// Rows predating the terminal-stamp columns carry no stamp; their last
// write was the terminal transition, so updated_at stands in for it.
func revenueDate(snap OrderSnapshot) time.Time {
	switch {
	case snap.Status == enums.OrderStatusDelivered && snap.DeliveredAt != nil:
		return *snap.DeliveredAt
	case snap.CompletedAt != nil:
		return *snap.CompletedAt
	case snap.DeliveredAt != nil:
		return *snap.DeliveredAt
	default:
		return snap.UpdatedAt
	}
}

// foldRevenue sums revenue over completed and delivered orders into a
// grand total plus per-day and per-month buckets, sorted by key.
func foldRevenue(snapshots []OrderSnapshot) RevenueReport {
	report := RevenueReport{
		ByDay:   []RevenueBucket{},
		ByMonth: []RevenueBucket{},
	}
	byDay := map[string]int64{}
	byMonth := map[string]int64{}
	for _, snap := range snapshots {
		if !snap.Status.CountsAsRevenue() {
			continue
		}
		cents := int64(snap.TotalCents)
		report.TotalCents += cents
		at := revenueDate(snap).UTC()
		byDay[at.Format("2006-01-02")] += cents
		byMonth[at.Format("2006-01")] += cents
	}
	report.ByDay = sortBuckets(byDay)
	report.ByMonth = sortBuckets(byMonth)
	return report
}

func sortBuckets(values map[string]int64) []RevenueBucket {
	buckets := make([]RevenueBucket, 0, len(values))
	for key, cents := range values {
		buckets = append(buckets, RevenueBucket{Key: key, Cents: cents})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets
}

// foldRevenueByStatus breaks order value down per status, including
// statuses that carry no recognized revenue yet.
func foldRevenueByStatus(snapshots []OrderSnapshot) map[enums.OrderStatus]int64 {
	totals := make(map[enums.OrderStatus]int64, len(enums.OrderStatuses()))
	for _, status := range enums.OrderStatuses() {
		totals[status] = 0
	}
	for _, snap := range snapshots {
		totals[snap.Status] += int64(snap.TotalCents)
	}
	return totals
}

// topDescriptions returns the n most frequent order descriptions, ties
// broken alphabetically for stable output.
func topDescriptions(snapshots []OrderSnapshot, n int) []DescriptionCount {
	if n <= 0 {
		return []DescriptionCount{}
	}
	counts := map[string]int64{}
	for _, snap := range snapshots {
		if snap.Description == "" {
			continue
		}
		counts[snap.Description]++
	}
	ranked := make([]DescriptionCount, 0, len(counts))
	for description, count := range counts {
		ranked = append(ranked, DescriptionCount{Description: description, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Description < ranked[j].Description
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
