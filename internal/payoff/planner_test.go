package payoff

import (
	"errors"
	"reflect"
	"testing"

	"github.com/prabavijay/financeflowapp2/internal/amortize"
	"github.com/prabavijay/financeflowapp2/internal/core"
)

func dollars(d float64) core.Money {
	return core.MoneyFromFloat(d)
}

func debt(name string, balance, rate, minimum float64) core.DebtItem {
	return core.DebtItem{
		Name:              name,
		Kind:              core.CreditCard,
		Balance:           dollars(balance),
		AnnualRatePercent: rate,
		MinimumPayment:    dollars(minimum),
	}
}

// Three debts with balances [500, 2000, 1000] and rates [25, 5, 15].
func sampleDebts() []core.DebtItem {
	return []core.DebtItem{
		debt("store card", 500, 25, 25),
		debt("car loan", 2000, 5, 60),
		debt("rewards card", 1000, 15, 40),
	}
}

func names(items []core.DebtItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestOrder(t *testing.T) {
	debts := sampleDebts()

	snowball := names(Order(debts, Snowball))
	wantSnowball := []string{"store card", "rewards card", "car loan"}
	if !reflect.DeepEqual(snowball, wantSnowball) {
		t.Errorf("snowball order = %v, want %v", snowball, wantSnowball)
	}

	avalanche := names(Order(debts, Avalanche))
	wantAvalanche := []string{"store card", "rewards card", "car loan"}
	if !reflect.DeepEqual(avalanche, wantAvalanche) {
		t.Errorf("avalanche order = %v, want %v", avalanche, wantAvalanche)
	}

	// Input order is untouched.
	if debts[0].Name != "store card" || debts[1].Name != "car loan" {
		t.Error("Order mutated its input slice")
	}
}

func TestOrder_TieBreaksByName(t *testing.T) {
	debts := []core.DebtItem{
		debt("zeta", 1000, 10, 30),
		debt("alpha", 1000, 10, 30),
		debt("mike", 1000, 10, 30),
	}
	want := []string{"alpha", "mike", "zeta"}

	if got := names(Order(debts, Snowball)); !reflect.DeepEqual(got, want) {
		t.Errorf("snowball tie-break = %v, want %v", got, want)
	}
	if got := names(Order(debts, Avalanche)); !reflect.DeepEqual(got, want) {
		t.Errorf("avalanche tie-break = %v, want %v", got, want)
	}
}

func TestBuildPlan_EmptySet(t *testing.T) {
	plan, err := BuildPlan(nil, Snowball, dollars(500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.TotalMonths != 0 || plan.TotalInterest.Cents != 0 || len(plan.Items) != 0 {
		t.Errorf("empty set plan = %+v, want zero values", plan)
	}
}

func TestBuildPlan_InsufficientBudget(t *testing.T) {
	// Minimums sum to 125.
	_, err := BuildPlan(sampleDebts(), Snowball, dollars(100))
	if !errors.Is(err, ErrInsufficientBudget) {
		t.Fatalf("err = %v, want ErrInsufficientBudget", err)
	}
}

func TestBuildPlan_SurplusConcentratesOnHead(t *testing.T) {
	debts := sampleDebts() // minimums: 25 + 60 + 40 = 125
	plan, err := BuildPlan(debts, Snowball, dollars(325))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(plan.Items))
	}
	head := plan.Items[0]
	if head.Name != "store card" {
		t.Errorf("head = %s, want store card", head.Name)
	}
	// Head gets its minimum plus the whole 200 surplus.
	if head.Payment.Cents != dollars(225).Cents {
		t.Errorf("head payment = %s, want 225.00", head.Payment)
	}
	for _, item := range plan.Items[1:] {
		var min core.Money
		for _, d := range debts {
			if d.Name == item.Name {
				min = d.MinimumPayment
			}
		}
		if item.Payment.Cents != min.Cents {
			t.Errorf("%s payment = %s, want minimum %s", item.Name, item.Payment, min)
		}
	}

	// Totals are the max months and summed interest over the items.
	wantInterest := int64(0)
	wantMonths := 0
	for _, item := range plan.Items {
		wantInterest += item.Interest.Cents
		if item.Months > wantMonths {
			wantMonths = item.Months
		}
	}
	if plan.TotalInterest.Cents != wantInterest {
		t.Errorf("TotalInterest = %d, want %d", plan.TotalInterest.Cents, wantInterest)
	}
	if plan.TotalMonths != wantMonths {
		t.Errorf("TotalMonths = %d, want %d", plan.TotalMonths, wantMonths)
	}
}

func TestBuildPlan_AvalancheNeverCostsMoreInterest(t *testing.T) {
	budgets := []float64{150, 200, 325, 500}
	for _, budget := range budgets {
		snowball, err := BuildPlan(sampleDebts(), Snowball, dollars(budget))
		if err != nil {
			t.Fatalf("snowball %v: %v", budget, err)
		}
		avalanche, err := BuildPlan(sampleDebts(), Avalanche, dollars(budget))
		if err != nil {
			t.Fatalf("avalanche %v: %v", budget, err)
		}
		if avalanche.TotalInterest.Cents > snowball.TotalInterest.Cents {
			t.Errorf("budget %v: avalanche interest %s exceeds snowball %s",
				budget, avalanche.TotalInterest, snowball.TotalInterest)
		}
	}
}

func TestBuildPlan_SavingsFlooredAtZero(t *testing.T) {
	plan, err := BuildPlan(sampleDebts(), Avalanche, dollars(325))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.InterestSaved.Cents < 0 {
		t.Errorf("InterestSaved = %s, want >= 0", plan.InterestSaved)
	}

	// With the budget equal to the minimums the plan matches the baseline,
	// so nothing is saved.
	flat, err := BuildPlan(sampleDebts(), Avalanche, dollars(125))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flat.InterestSaved.Cents != 0 {
		t.Errorf("minimum-only InterestSaved = %s, want 0.00", flat.InterestSaved)
	}
}

func TestBuildPlan_NonAmortizingDebtIsNamed(t *testing.T) {
	debts := []core.DebtItem{
		debt("healthy", 500, 10, 50),
		// 5000 at 24% accrues 100/month; a 10 minimum can never pay it off.
		debt("runaway", 5000, 24, 10),
	}
	_, err := BuildPlan(debts, Avalanche, dollars(200))
	if !errors.Is(err, amortize.ErrNonAmortizing) {
		t.Fatalf("err = %v, want wrapped ErrNonAmortizing", err)
	}
}

func TestRecommendedExtraPayment(t *testing.T) {
	bounds := ExtraPaymentBounds{Floor: dollars(200), Ceiling: dollars(1000)}

	tests := []struct {
		name     string
		minimums []float64
		want     float64
	}{
		{"clamped to floor", []float64{100, 100}, 200},       // 40% of 200 = 80
		{"within bounds", []float64{500, 500}, 400},          // 40% of 1000
		{"clamped to ceiling", []float64{2000, 1500}, 1000},  // 40% of 3500 = 1400
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var debts []core.DebtItem
			for i, m := range tt.minimums {
				debts = append(debts, debt(string(rune('a'+i)), 10000, 10, m))
			}
			got := RecommendedExtraPayment(debts, bounds)
			if got.Cents != dollars(tt.want).Cents {
				t.Errorf("RecommendedExtraPayment = %s, want %.2f", got, tt.want)
			}
		})
	}
}

func TestClassifyUtilization(t *testing.T) {
	tests := []struct {
		name      string
		balance   float64
		limit     float64
		wantLevel UtilizationLevel
		wantOK    bool
	}{
		{"high above 80", 900, 1000, UtilizationHigh, true},
		{"medium above 50", 600, 1000, UtilizationMedium, true},
		{"low at 50", 500, 1000, UtilizationLow, true},
		{"low small balance", 100, 1000, UtilizationLow, true},
		{"no limit unclassified", 900, 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := debt("card", tt.balance, 20, 25)
			item.CreditLimit = dollars(tt.limit)
			got, ok := ClassifyUtilization(item)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", got.Level, tt.wantLevel)
			}
		})
	}
}
