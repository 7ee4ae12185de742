package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prabavijay/financeflowapp2/internal/amqp"
	"github.com/prabavijay/financeflowapp2/internal/core"
	"github.com/prabavijay/financeflowapp2/internal/sheets"
)

// ExportWorker writes payoff plans delivered over AMQP to an external sheet.
// Messages carry the full plan, so the worker needs no database access.
type ExportWorker struct {
	writer sheets.PlanWriter
}

func NewExportWorker(writer sheets.PlanWriter) *ExportWorker {
	return &ExportWorker{writer: writer}
}

// HandlePlanExport processes a single plan export message.
func (w *ExportWorker) HandlePlanExport(ctx context.Context, msg *amqp.PlanExportMessage) error {
	slog.InfoContext(ctx, "Processing plan export",
		"strategy", msg.Strategy,
		"items", len(msg.Items),
		"generated_at", msg.GeneratedAt)

	if w.writer == nil {
		slog.WarnContext(ctx, "No plan writer configured, dropping export",
			"strategy", msg.Strategy)
		return nil
	}

	export := sheets.PlanExport{
		Strategy:      msg.Strategy,
		GeneratedAt:   msg.GeneratedAt,
		TotalMonths:   msg.TotalMonths,
		TotalInterest: core.Money{Cents: msg.TotalInterestCents},
		InterestSaved: core.Money{Cents: msg.InterestSavedCents},
	}
	for _, item := range msg.Items {
		export.Rows = append(export.Rows, sheets.ScheduleRow{
			Name:     item.Name,
			Kind:     item.Kind,
			Balance:  core.Money{Cents: item.BalanceCents},
			Payment:  core.Money{Cents: item.PaymentCents},
			Months:   item.Months,
			Interest: core.Money{Cents: item.InterestCents},
		})
	}

	if err := w.writer.AppendPlan(ctx, export); err != nil {
		return fmt.Errorf("append plan to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Plan export written",
		"strategy", msg.Strategy,
		"rows", len(export.Rows))

	return nil
}
