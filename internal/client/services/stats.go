package services

import (
	"context"
	"fmt"

	"github.com/andrejsk/kvits/internal/client/repositories/receipts"
)

// Summary aggregates spending over an optional date range. All aggregation
// happens in the local store; no network is involved.
type Summary struct {
	TotalSpend   float64
	ReceiptCount int
	ByStore      []receipts.StoreTotal
	ByMonth      []receipts.MonthTotal
	ByCurrency   []receipts.CurrencyTotal
}

// StatsService produces spending analytics from the local record set.
type StatsService interface {
	// Summary aggregates over [from, to] (models.DateLayout, empty bounds
	// open).
	Summary(ctx context.Context, from, to string) (*Summary, error)
}

type statsService struct {
	receiptRepo receipts.Repository
}

func NewStatsService(rr receipts.Repository) StatsService {
	return &statsService{receiptRepo: rr}
}

func (s *statsService) Summary(ctx context.Context, from, to string) (*Summary, error) {
	byStore, err := s.receiptRepo.TotalsByStore(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("error aggregating by store: %w", err)
	}
	byMonth, err := s.receiptRepo.TotalsByMonth(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("error aggregating by month: %w", err)
	}
	byCurrency, err := s.receiptRepo.TotalsByCurrency(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("error aggregating by currency: %w", err)
	}

	summary := &Summary{ByStore: byStore, ByMonth: byMonth, ByCurrency: byCurrency}
	for _, row := range byStore {
		summary.TotalSpend += row.Total
		summary.ReceiptCount += row.Count
	}
	return summary, nil
}
