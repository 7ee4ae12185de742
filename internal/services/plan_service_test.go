package services

import (
	"context"
	"testing"
	"time"

	"github.com/prabavijay/financeflowapp2/internal/amqp"
	"github.com/prabavijay/financeflowapp2/internal/cache"
	"github.com/prabavijay/financeflowapp2/internal/core"
	"github.com/prabavijay/financeflowapp2/internal/payoff"
)

type fakeDebtStore struct {
	debts []core.DebtItem
}

func (f *fakeDebtStore) ListDebts(ctx context.Context) ([]core.DebtItem, error) {
	return f.debts, nil
}

type capturePublisher struct {
	messages []*amqp.PlanExportMessage
}

func (c *capturePublisher) PublishPlanExport(ctx context.Context, msg *amqp.PlanExportMessage) error {
	c.messages = append(c.messages, msg)
	return nil
}

func testDebts() []core.DebtItem {
	return []core.DebtItem{
		{
			Name: "store card", Kind: core.CreditCard,
			Balance:           core.MoneyFromFloat(500),
			AnnualRatePercent: 25,
			MinimumPayment:    core.MoneyFromFloat(25),
			CreditLimit:       core.MoneyFromFloat(550),
		},
		{
			Name: "car loan", Kind: core.AutoLoan,
			Balance:           core.MoneyFromFloat(2000),
			AnnualRatePercent: 5,
			MinimumPayment:    core.MoneyFromFloat(60),
		},
		{
			Name: "rewards card", Kind: core.CreditCard,
			Balance:           core.MoneyFromFloat(1000),
			AnnualRatePercent: 15,
			MinimumPayment:    core.MoneyFromFloat(40),
		},
	}
}

func newTestPlanService(store *fakeDebtStore, pub *capturePublisher) *PlanService {
	bounds := payoff.ExtraPaymentBounds{
		Floor:   core.MoneyFromFloat(200),
		Ceiling: core.MoneyFromFloat(1000),
	}
	var publisher PlanPublisher
	if pub != nil {
		publisher = pub
	}
	return NewPlanService(store, cache.NewMemoryCache(), publisher, time.Minute, bounds)
}

func TestBuildPlan_DefaultBudget(t *testing.T) {
	store := &fakeDebtStore{debts: testDebts()}
	svc := newTestPlanService(store, nil)

	resp, err := svc.BuildPlan(context.Background(), payoff.Snowball, core.Money{})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	// Minimums total 125; 40% of that is 50, clamped up to the 200 floor.
	if resp.RecommendedExtra != 200 {
		t.Errorf("RecommendedExtra = %v, want 200", resp.RecommendedExtra)
	}
	if resp.Budget != 325 {
		t.Errorf("Budget = %v, want 325 (minimums + recommended extra)", resp.Budget)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(resp.Items))
	}
	if resp.Items[0].Name != "store card" {
		t.Errorf("head = %s, want store card", resp.Items[0].Name)
	}
}

func TestBuildPlan_CachesBySnapshot(t *testing.T) {
	store := &fakeDebtStore{debts: testDebts()}
	pub := &capturePublisher{}
	svc := newTestPlanService(store, pub)
	ctx := context.Background()

	first, err := svc.BuildPlan(ctx, payoff.Avalanche, core.MoneyFromFloat(325))
	if err != nil {
		t.Fatalf("first BuildPlan: %v", err)
	}
	second, err := svc.BuildPlan(ctx, payoff.Avalanche, core.MoneyFromFloat(325))
	if err != nil {
		t.Fatalf("second BuildPlan: %v", err)
	}

	if first.TotalInterest != second.TotalInterest || first.TotalMonths != second.TotalMonths {
		t.Errorf("cached plan diverged: %+v vs %+v", first, second)
	}
	// Only the fresh computation publishes an export.
	if len(pub.messages) != 1 {
		t.Errorf("exports published = %d, want 1", len(pub.messages))
	}

	// A different budget is a different snapshot.
	if _, err := svc.BuildPlan(ctx, payoff.Avalanche, core.MoneyFromFloat(400)); err != nil {
		t.Fatalf("third BuildPlan: %v", err)
	}
	if len(pub.messages) != 2 {
		t.Errorf("exports published = %d, want 2", len(pub.messages))
	}
}

func TestBuildPlan_UnknownStrategy(t *testing.T) {
	svc := newTestPlanService(&fakeDebtStore{debts: testDebts()}, nil)
	if _, err := svc.BuildPlan(context.Background(), "waterfall", core.Money{}); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestBuildPlan_RisksOnlyForLimitedDebts(t *testing.T) {
	svc := newTestPlanService(&fakeDebtStore{debts: testDebts()}, nil)

	resp, err := svc.BuildPlan(context.Background(), payoff.Snowball, core.Money{})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	// Only "store card" carries a credit limit; 500/550 is high utilization.
	if len(resp.Risks) != 1 {
		t.Fatalf("risks = %d, want 1", len(resp.Risks))
	}
	if resp.Risks[0].Name != "store card" || resp.Risks[0].Level != "high" {
		t.Errorf("risk = %+v, want store card/high", resp.Risks[0])
	}
}

func TestBuildPlan_EmptyDebts(t *testing.T) {
	svc := newTestPlanService(&fakeDebtStore{}, nil)

	resp, err := svc.BuildPlan(context.Background(), payoff.Snowball, core.Money{})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if resp.TotalMonths != 0 || resp.TotalInterest != 0 || len(resp.Items) != 0 {
		t.Errorf("empty-set plan = %+v, want zero values", resp)
	}
}

func TestComparePlans(t *testing.T) {
	svc := newTestPlanService(&fakeDebtStore{debts: testDebts()}, nil)

	comparison, err := svc.ComparePlans(context.Background(), core.MoneyFromFloat(325))
	if err != nil {
		t.Fatalf("ComparePlans: %v", err)
	}

	if comparison.Avalanche.TotalInterest > comparison.Snowball.TotalInterest {
		t.Errorf("avalanche interest %v exceeds snowball %v",
			comparison.Avalanche.TotalInterest, comparison.Snowball.TotalInterest)
	}
	if comparison.Best != "snowball" && comparison.Best != "avalanche" {
		t.Errorf("best = %q, want a strategy name", comparison.Best)
	}
	if comparison.InterestSaved < 0 {
		t.Errorf("InterestSaved = %v, want >= 0", comparison.InterestSaved)
	}
}
