package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/prabavijay/financeflowapp2/internal/amortize"
	"github.com/prabavijay/financeflowapp2/internal/core"
	"github.com/prabavijay/financeflowapp2/internal/payoff"
)

const strategyCompare = "compare"

// handlePlan computes a payoff plan. Query parameters:
//
//	strategy  snowball (default), avalanche, or compare
//	budget    total monthly payment budget as a decimal amount;
//	          omitted or zero means minimums plus the recommended extra
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	strategy := strings.TrimSpace(r.URL.Query().Get("strategy"))
	if strategy == "" {
		strategy = string(payoff.Snowball)
	}
	if strategy != strategyCompare && !payoff.Strategy(strategy).Valid() {
		writeError(w, http.StatusBadRequest, "unknown strategy "+strconv.Quote(strategy))
		return
	}

	var budget core.Money
	if raw := strings.TrimSpace(r.URL.Query().Get("budget")); raw != "" {
		cents, err := core.ParseDecimalToCents(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid budget amount")
			return
		}
		budget = core.Money{Cents: cents}
	}

	if strategy == strategyCompare {
		comparison, err := s.plans.ComparePlans(r.Context(), budget)
		if err != nil {
			s.writePlanError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, comparison)
		return
	}

	plan, err := s.plans.BuildPlan(r.Context(), payoff.Strategy(strategy), budget)
	if err != nil {
		s.writePlanError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, payoff.ErrInsufficientBudget):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, amortize.ErrNonAmortizing):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Plan computation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute plan")
	}
}
