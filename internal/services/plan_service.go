// Package services orchestrates the calculation packages over storage, the
// plan cache, and the export pipeline. All business math stays in amortize,
// payoff and projection; this layer only loads records, delegates, and
// shapes results.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/prabavijay/financeflowapp2/internal/amqp"
	"github.com/prabavijay/financeflowapp2/internal/cache"
	"github.com/prabavijay/financeflowapp2/internal/core"
	"github.com/prabavijay/financeflowapp2/internal/payoff"
)

type (
	// DebtStore supplies validated debt records.
	DebtStore interface {
		ListDebts(ctx context.Context) ([]core.DebtItem, error)
	}

	// PlanPublisher hands computed plans to the export pipeline.
	PlanPublisher interface {
		PublishPlanExport(ctx context.Context, msg *amqp.PlanExportMessage) error
	}

	// PlanItem is one debt's line in a plan response.
	PlanItem struct {
		Name          string  `json:"name"`
		Kind          string  `json:"kind"`
		Balance       float64 `json:"balance"`
		Payment       float64 `json:"payment"`
		Months        int     `json:"months_to_payoff"`
		TotalInterest float64 `json:"total_interest"`
	}

	// PlanResponse is a computed strategy plan shaped for callers.
	PlanResponse struct {
		Strategy         string     `json:"strategy"`
		Budget           float64    `json:"payment_budget"`
		RecommendedExtra float64    `json:"recommended_extra_payment"`
		Items            []PlanItem `json:"items"`
		TotalMonths      int        `json:"total_months"`
		TotalInterest    float64    `json:"total_interest"`
		InterestSaved    float64    `json:"interest_saved"`
		Risks            []DebtRisk `json:"risks,omitempty"`
	}

	// DebtRisk carries a credit-utilization classification. Debts without
	// a positive credit limit never appear here.
	DebtRisk struct {
		Name        string  `json:"name"`
		Level       string  `json:"level"`
		Utilization float64 `json:"utilization_percent"`
	}

	// ComparisonResponse pits both strategies against each other.
	ComparisonResponse struct {
		Snowball      PlanResponse `json:"snowball"`
		Avalanche     PlanResponse `json:"avalanche"`
		Best          string       `json:"best_strategy"`
		InterestSaved float64      `json:"interest_saved"`
		MonthsSaved   int          `json:"months_saved"`
	}

	PlanService struct {
		store     DebtStore
		cache     cache.Cache
		publisher PlanPublisher // nil disables the export pipeline
		cacheTTL  time.Duration
		bounds    payoff.ExtraPaymentBounds
	}
)

func NewPlanService(store DebtStore, planCache cache.Cache, publisher PlanPublisher,
	cacheTTL time.Duration, bounds payoff.ExtraPaymentBounds,
) *PlanService {
	return &PlanService{
		store:     store,
		cache:     planCache,
		publisher: publisher,
		cacheTTL:  cacheTTL,
		bounds:    bounds,
	}
}

// BuildPlan computes one strategy plan. A zero budget means "minimums plus
// the recommended extra payment". Results are cached by strategy, budget and
// debt snapshot; identical inputs always produce identical plans, so a cache
// hit is indistinguishable from a fresh computation.
func (s *PlanService) BuildPlan(ctx context.Context, strategy payoff.Strategy, budget core.Money) (PlanResponse, error) {
	if !strategy.Valid() {
		return PlanResponse{}, fmt.Errorf("unknown strategy %q", strategy)
	}

	debts, err := s.store.ListDebts(ctx)
	if err != nil {
		return PlanResponse{}, fmt.Errorf("list debts: %w", err)
	}

	recommended := payoff.RecommendedExtraPayment(debts, s.bounds)
	if budget.Cents <= 0 {
		budget = payoff.MinimumPaymentTotal(debts).Add(recommended)
	}

	key := planCacheKey(strategy, budget, debts)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			var resp PlanResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				slog.DebugContext(ctx, "Plan served from cache",
					"strategy", strategy, "cache_key", key)
				return resp, nil
			}
			slog.WarnContext(ctx, "Discarding undecodable cache entry", "cache_key", key)
		}
	}

	plan, err := payoff.BuildPlan(debts, strategy, budget)
	if err != nil {
		return PlanResponse{}, fmt.Errorf("build %s plan: %w", strategy, err)
	}

	resp := toPlanResponse(plan, budget, recommended, debts)

	if s.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
				slog.WarnContext(ctx, "Failed to cache plan", "cache_key", key, "error", err)
			}
		}
	}

	s.publishExport(ctx, plan)
	return resp, nil
}

// ComparePlans computes both strategies for the same budget and reports
// which one wins on interest.
func (s *PlanService) ComparePlans(ctx context.Context, budget core.Money) (ComparisonResponse, error) {
	snowball, err := s.BuildPlan(ctx, payoff.Snowball, budget)
	if err != nil {
		return ComparisonResponse{}, err
	}
	avalanche, err := s.BuildPlan(ctx, payoff.Avalanche, budget)
	if err != nil {
		return ComparisonResponse{}, err
	}

	comparison := ComparisonResponse{
		Snowball:    snowball,
		Avalanche:   avalanche,
		Best:        string(payoff.Snowball),
		MonthsSaved: snowball.TotalMonths - avalanche.TotalMonths,
	}
	if avalanche.TotalInterest < snowball.TotalInterest {
		comparison.Best = string(payoff.Avalanche)
	}
	if saved := snowball.TotalInterest - avalanche.TotalInterest; saved > 0 {
		comparison.InterestSaved = saved
	}
	return comparison, nil
}

// publishExport hands the plan to the export worker. Export is best-effort;
// the caller still gets the plan when the broker is down.
func (s *PlanService) publishExport(ctx context.Context, plan payoff.Plan) {
	if s.publisher == nil {
		return
	}

	msg := &amqp.PlanExportMessage{
		Strategy:           string(plan.Strategy),
		TotalMonths:        plan.TotalMonths,
		TotalInterestCents: plan.TotalInterest.Cents,
		InterestSavedCents: plan.InterestSaved.Cents,
		GeneratedAt:        time.Now().UTC(),
	}
	for _, item := range plan.Items {
		msg.Items = append(msg.Items, amqp.PlanExportItem{
			Name:          item.Name,
			Kind:          string(item.Kind),
			BalanceCents:  item.Balance.Cents,
			PaymentCents:  item.Payment.Cents,
			Months:        item.Months,
			InterestCents: item.Interest.Cents,
		})
	}

	if err := s.publisher.PublishPlanExport(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish plan export",
			"strategy", plan.Strategy, "error", err)
	}
}

func toPlanResponse(plan payoff.Plan, budget, recommended core.Money, debts []core.DebtItem) PlanResponse {
	resp := PlanResponse{
		Strategy:         string(plan.Strategy),
		Budget:           budget.Dollars(),
		RecommendedExtra: recommended.Dollars(),
		Items:            []PlanItem{},
		TotalMonths:      plan.TotalMonths,
		TotalInterest:    plan.TotalInterest.Dollars(),
		InterestSaved:    plan.InterestSaved.Dollars(),
	}
	for _, item := range plan.Items {
		resp.Items = append(resp.Items, PlanItem{
			Name:          item.Name,
			Kind:          string(item.Kind),
			Balance:       item.Balance.Dollars(),
			Payment:       item.Payment.Dollars(),
			Months:        item.Months,
			TotalInterest: item.Interest.Dollars(),
		})
	}
	for _, d := range debts {
		if u, ok := payoff.ClassifyUtilization(d); ok {
			resp.Risks = append(resp.Risks, DebtRisk{
				Name:        d.Name,
				Level:       string(u.Level),
				Utilization: u.Percent,
			})
		}
	}
	return resp
}

// planCacheKey hashes the full input snapshot so any change to a debt, the
// strategy or the budget lands on a fresh key.
func planCacheKey(strategy payoff.Strategy, budget core.Money, debts []core.DebtItem) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d", strategy, budget.Cents)
	for _, d := range debts {
		fmt.Fprintf(h, "|%s:%d:%g:%d:%d",
			d.Name, d.Balance.Cents, d.AnnualRatePercent,
			d.MinimumPayment.Cents, d.CreditLimit.Cents)
	}
	return fmt.Sprintf("plan:%x", h.Sum64())
}
