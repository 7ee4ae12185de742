package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prabavijay/financeflowapp2/internal/core"
	"github.com/prabavijay/financeflowapp2/internal/projection"
)

type (
	// BudgetItemStore supplies validated budget line items.
	BudgetItemStore interface {
		ListBudgetItems(ctx context.Context) ([]core.BudgetLineItem, error)
	}

	// ProjectedEvent is one dated cash-flow occurrence shaped for callers.
	ProjectedEvent struct {
		Date         string  `json:"date"`
		Name         string  `json:"name"`
		Category     string  `json:"category"`
		SignedAmount float64 `json:"signed_amount"`
	}

	// ProjectionResponse is a month's expanded calendar plus totals.
	ProjectionResponse struct {
		Year          int              `json:"year"`
		Month         int              `json:"month"`
		Events        []ProjectedEvent `json:"events"`
		TotalIncome   float64          `json:"total_income"`
		TotalExpenses float64          `json:"total_expenses"`
		Net           float64          `json:"net"`
	}

	ProjectionService struct {
		store BudgetItemStore
	}
)

func NewProjectionService(store BudgetItemStore) *ProjectionService {
	return &ProjectionService{store: store}
}

// ProjectMonth expands the stored budget items for one calendar month.
// Items with an unrecognized frequency still project (identity fallback) but
// get flagged here as a data-quality problem.
func (s *ProjectionService) ProjectMonth(ctx context.Context, year, month int) (ProjectionResponse, error) {
	if month < 1 || month > 12 {
		return ProjectionResponse{}, fmt.Errorf("month %d: %w", month, core.ErrInvalidMonth)
	}

	items, err := s.store.ListBudgetItems(ctx)
	if err != nil {
		return ProjectionResponse{}, fmt.Errorf("list budget items: %w", err)
	}

	for _, item := range items {
		if !item.Frequency.Known() {
			slog.WarnContext(ctx, "Budget item has unrecognized frequency, using identity conversion",
				"item_name", item.Name,
				"frequency", item.Frequency)
		}
	}

	proj := projection.ProjectMonth(items, year, time.Month(month))

	resp := ProjectionResponse{
		Year:          proj.Year,
		Month:         proj.Month,
		Events:        []ProjectedEvent{},
		TotalIncome:   proj.TotalIncome.Dollars(),
		TotalExpenses: proj.TotalExpenses.Dollars(),
		Net:           proj.Net.Dollars(),
	}
	for _, e := range proj.Events {
		var category string
		if e.Source != nil {
			category = e.Source.Category
		}
		resp.Events = append(resp.Events, ProjectedEvent{
			Date:         e.Date.Format("2006-01-02"),
			Name:         e.Name,
			Category:     category,
			SignedAmount: e.SignedAmount.Dollars(),
		})
	}
	return resp, nil
}
