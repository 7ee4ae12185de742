// Package projection expands recurring budget line items into a month of
// dated cash-flow events.
package projection

import (
	"sort"
	"time"

	"github.com/prabavijay/financeflowapp2/internal/amortize"
	"github.com/prabavijay/financeflowapp2/internal/core"
)

type (
	// Event is one dated cash-flow occurrence inside the projection month.
	// SignedAmount is positive for income and negative for expenses.
	// Source points back into the caller's item slice; the event does not
	// own it.
	Event struct {
		Date         core.Date
		Name         string
		SignedAmount core.Money
		Source       *core.BudgetLineItem
	}

	// MonthProjection is the expanded calendar for one (year, month) plus
	// monthly-equivalent totals. The totals are computed from the items'
	// normalized amounts, independently of the expanded events; for the
	// approximated frequencies the two may diverge by design.
	MonthProjection struct {
		Year          int
		Month         int
		Events        []Event
		TotalIncome   core.Money
		TotalExpenses core.Money
		Net           core.Money
	}
)

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay keeps an anchor day inside the month, pulling day 31 back to 30,
// 29 or 28 as the month requires.
func clampDay(day, daysInMonth int) int {
	if day < 1 {
		return 1
	}
	if day > daysInMonth {
		return daysInMonth
	}
	return day
}

// ProjectMonth expands the items into date-ordered events for the month.
//
// Monthly items produce one event on their anchor day. Bi-weekly items
// produce two, fourteen days apart, with the second suppressed when the
// month end folds it onto the first. Every other frequency falls back to a
// single day-1 event carrying the monthly-equivalent amount; this keeps the
// month total right even though the individual dates are approximate.
//
// Ties on the same date keep insertion order (stable sort), so the output is
// deterministic for a given input order.
func ProjectMonth(items []core.BudgetLineItem, year int, month time.Month) MonthProjection {
	proj := MonthProjection{
		Year:   year,
		Month:  int(month),
		Events: []Event{},
	}
	days := daysIn(year, month)

	for i := range items {
		item := &items[i]

		switch item.Frequency {
		case core.Monthly:
			day := clampDay(item.AnchorDay, days)
			proj.Events = append(proj.Events, newEvent(item, year, month, day, item.Amount))

		case core.BiWeekly:
			first := clampDay(item.AnchorDay, days)
			second := clampDay(item.AnchorDay+14, days)
			proj.Events = append(proj.Events, newEvent(item, year, month, first, item.Amount))
			// Near the month end the second occurrence can collapse onto
			// the first; emit at most one event then.
			if second != first {
				proj.Events = append(proj.Events, newEvent(item, year, month, second, item.Amount))
			}

		default:
			// Weekly, semi-monthly, quarterly, yearly and anything
			// unrecognized: one day-1 event at the monthly-equivalent
			// amount instead of an exact recurrence expansion.
			amount := amortize.MonthlyEquivalent(item.Amount, item.Frequency)
			proj.Events = append(proj.Events, newEvent(item, year, month, 1, amount))
		}

		equivalent := amortize.MonthlyEquivalent(item.Amount, item.Frequency)
		if item.Type == core.Expense {
			proj.TotalExpenses = proj.TotalExpenses.Add(equivalent)
		} else {
			proj.TotalIncome = proj.TotalIncome.Add(equivalent)
		}
	}

	sort.SliceStable(proj.Events, func(i, j int) bool {
		return proj.Events[i].Date.Before(proj.Events[j].Date.Time)
	})

	proj.Net = proj.TotalIncome.Sub(proj.TotalExpenses)
	return proj
}

func newEvent(item *core.BudgetLineItem, year int, month time.Month, day int, amount core.Money) Event {
	signed := amount
	if item.Type == core.Expense {
		signed = amount.Neg()
	}
	return Event{
		Date:         core.NewDate(year, int(month), day),
		Name:         item.Name,
		SignedAmount: signed,
		Source:       item,
	}
}
