// Package sheets defines the outbound port for exporting payoff schedules.
package sheets

import (
	"context"
	"time"

	"github.com/prabavijay/financeflowapp2/internal/core"
)

type (
	// ScheduleRow is one debt's line in an exported payoff schedule.
	ScheduleRow struct {
		Name     string
		Kind     string
		Balance  core.Money
		Payment  core.Money
		Months   int
		Interest core.Money
	}

	// PlanExport is a complete payoff schedule ready to be written out.
	PlanExport struct {
		Strategy      string
		GeneratedAt   time.Time
		TotalMonths   int
		TotalInterest core.Money
		InterestSaved core.Money
		Rows          []ScheduleRow
	}

	// PlanWriter appends a payoff schedule to an external sheet.
	PlanWriter interface {
		AppendPlan(ctx context.Context, p PlanExport) error
	}
)
