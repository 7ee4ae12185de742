// Package payoff ranks debts for the snowball and avalanche strategies and
// simulates a payoff timeline with the monthly surplus concentrated on the
// head of the order.
package payoff

import (
	"errors"
	"fmt"
	"sort"

	"github.com/prabavijay/financeflowapp2/internal/amortize"
	"github.com/prabavijay/financeflowapp2/internal/core"
)

const (
	Snowball  Strategy = "snowball"
	Avalanche Strategy = "avalanche"
)

type (
	Strategy string

	// ItemResult is the stand-alone payoff of one debt under a plan.
	ItemResult struct {
		Name     string
		Kind     core.DebtKind
		Balance  core.Money
		Payment  core.Money
		Months   int
		Interest core.Money
	}

	// Plan is the simulated outcome of one strategy for a fixed total
	// monthly payment budget.
	//
	// TotalMonths is the longest individual payoff horizon, not a strict
	// waterfall rollover: each item's payoff is computed independently with
	// its assigned payment held constant. This mirrors the simpler model
	// the product has always shown; a month-by-month rollover would change
	// the reported numbers.
	Plan struct {
		Strategy      Strategy
		Items         []ItemResult
		TotalMonths   int
		TotalInterest core.Money
		// InterestSaved is relative to paying only the minimums, floored
		// at zero.
		InterestSaved core.Money
	}

	// ExtraPaymentBounds clamp the advisory extra-payment suggestion.
	ExtraPaymentBounds struct {
		Floor   core.Money
		Ceiling core.Money
	}

	// Utilization classifies a revolving balance against its credit limit.
	Utilization struct {
		Level   UtilizationLevel
		Percent float64
	}

	UtilizationLevel string
)

const (
	UtilizationHigh   UtilizationLevel = "high"
	UtilizationMedium UtilizationLevel = "medium"
	UtilizationLow    UtilizationLevel = "low"
)

// ErrInsufficientBudget reports a total payment budget below the sum of all
// minimum payments.
var ErrInsufficientBudget = errors.New("payment budget below sum of minimum payments")

// Valid reports whether s names a supported strategy.
func (s Strategy) Valid() bool {
	return s == Snowball || s == Avalanche
}

// Order returns the debts ranked for the given strategy: snowball by balance
// ascending, avalanche by annual rate descending. Ties break by name so the
// order is total and deterministic. The input slice is not modified.
func Order(items []core.DebtItem, strategy Strategy) []core.DebtItem {
	ordered := make([]core.DebtItem, len(items))
	copy(ordered, items)

	sort.SliceStable(ordered, func(i, j int) bool {
		switch strategy {
		case Avalanche:
			if ordered[i].AnnualRatePercent != ordered[j].AnnualRatePercent {
				return ordered[i].AnnualRatePercent > ordered[j].AnnualRatePercent
			}
		default:
			if ordered[i].Balance.Cents != ordered[j].Balance.Cents {
				return ordered[i].Balance.Cents < ordered[j].Balance.Cents
			}
		}
		return ordered[i].Name < ordered[j].Name
	})

	return ordered
}

// MinimumPaymentTotal sums the minimum payments across all debts.
func MinimumPaymentTotal(items []core.DebtItem) core.Money {
	var total core.Money
	for _, item := range items {
		total = total.Add(item.MinimumPayment)
	}
	return total
}

// BuildPlan simulates one strategy: every debt behind the head of the order
// pays exactly its minimum, the head absorbs the whole surplus
// (totalBudget - sum of minimums), and each payoff is computed independently.
//
// An empty debt set yields an empty plan with zero totals. A budget below the
// minimums yields ErrInsufficientBudget. A debt whose assigned payment cannot
// cover its monthly interest yields amortize.ErrNonAmortizing wrapped with
// the debt's name.
func BuildPlan(items []core.DebtItem, strategy Strategy, totalBudget core.Money) (Plan, error) {
	plan := Plan{Strategy: strategy, Items: []ItemResult{}}
	if len(items) == 0 {
		return plan, nil
	}

	minTotal := MinimumPaymentTotal(items)
	if totalBudget.Cents < minTotal.Cents {
		return Plan{}, fmt.Errorf("budget %s vs minimums %s: %w",
			totalBudget, minTotal, ErrInsufficientBudget)
	}
	surplus := totalBudget.Sub(minTotal)

	ordered := Order(items, strategy)
	for i, item := range ordered {
		payment := item.MinimumPayment
		if i == 0 {
			payment = payment.Add(surplus)
		}

		months, err := amortize.MonthsToPayoff(item.Balance, payment, item.AnnualRatePercent)
		if err != nil {
			return Plan{}, fmt.Errorf("debt %q: %w", item.Name, err)
		}
		interest, err := amortize.TotalInterest(item.Balance, payment, item.AnnualRatePercent)
		if err != nil {
			return Plan{}, fmt.Errorf("debt %q: %w", item.Name, err)
		}

		plan.Items = append(plan.Items, ItemResult{
			Name:     item.Name,
			Kind:     item.Kind,
			Balance:  item.Balance,
			Payment:  payment,
			Months:   months,
			Interest: interest,
		})
		if months > plan.TotalMonths {
			plan.TotalMonths = months
		}
		plan.TotalInterest = plan.TotalInterest.Add(interest)
	}

	baseline, err := minimumOnlyInterest(items)
	if err != nil {
		return Plan{}, err
	}
	if saved := baseline.Sub(plan.TotalInterest); saved.IsPositive() {
		plan.InterestSaved = saved
	}

	return plan, nil
}

// minimumOnlyInterest is the baseline: every debt paying only its minimum.
func minimumOnlyInterest(items []core.DebtItem) (core.Money, error) {
	var total core.Money
	for _, item := range items {
		interest, err := amortize.TotalInterest(item.Balance, item.MinimumPayment, item.AnnualRatePercent)
		if err != nil {
			return core.Money{}, fmt.Errorf("debt %q: %w", item.Name, err)
		}
		total = total.Add(interest)
	}
	return total, nil
}

// RecommendedExtraPayment suggests a monthly surplus to layer on top of the
// minimums: 40% of the minimum total, clamped to the given bounds. Advisory
// only; the caller decides the actual budget.
func RecommendedExtraPayment(items []core.DebtItem, bounds ExtraPaymentBounds) core.Money {
	extra := core.MoneyFromFloat(MinimumPaymentTotal(items).Dollars() * 0.4)
	if extra.Cents < bounds.Floor.Cents {
		return bounds.Floor
	}
	if extra.Cents > bounds.Ceiling.Cents {
		return bounds.Ceiling
	}
	return extra
}

// ClassifyUtilization rates a balance against its credit limit: above 80%
// high, above 50% medium, otherwise low. Debts without a positive credit
// limit are unclassified (ok == false), never defaulted to low.
func ClassifyUtilization(item core.DebtItem) (Utilization, bool) {
	if item.CreditLimit.Cents <= 0 {
		return Utilization{}, false
	}
	percent := item.Balance.Dollars() / item.CreditLimit.Dollars() * 100

	level := UtilizationLow
	switch {
	case percent > 80:
		level = UtilizationHigh
	case percent > 50:
		level = UtilizationMedium
	}
	return Utilization{Level: level, Percent: percent}, true
}
