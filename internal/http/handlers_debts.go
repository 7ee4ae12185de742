package http

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prabavijay/financeflowapp2/internal/core"
)

type (
	debtRequest struct {
		Name              string  `json:"name"`
		Kind              string  `json:"kind"`
		Balance           float64 `json:"balance"`
		AnnualRatePercent float64 `json:"annual_rate_percent"`
		MinimumPayment    float64 `json:"minimum_payment"`
		CreditLimit       float64 `json:"credit_limit,omitempty"`
	}

	debtResponse struct {
		ID                int64   `json:"id"`
		Name              string  `json:"name"`
		Kind              string  `json:"kind"`
		Balance           float64 `json:"balance"`
		AnnualRatePercent float64 `json:"annual_rate_percent"`
		MinimumPayment    float64 `json:"minimum_payment"`
		CreditLimit       float64 `json:"credit_limit,omitempty"`
	}
)

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	debt := core.DebtItem{
		Name:              req.Name,
		Kind:              core.DebtKind(req.Kind),
		Balance:           core.MoneyFromFloat(req.Balance),
		AnnualRatePercent: req.AnnualRatePercent,
		MinimumPayment:    core.MoneyFromFloat(req.MinimumPayment),
		CreditLimit:       core.MoneyFromFloat(req.CreditLimit),
	}
	if err := debt.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.debts.CreateDebt(r.Context(), debt)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create debt",
			"debt_name", debt.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save debt")
		return
	}

	debt.ID = id
	writeJSON(w, http.StatusCreated, toDebtResponse(debt))
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.debts.ListDebts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list debts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load debts")
		return
	}

	resp := make([]debtResponse, 0, len(debts))
	for _, d := range debts {
		resp = append(resp, toDebtResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid debt id")
		return
	}

	if err := s.debts.DeleteDebt(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "debt not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete debt", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete debt")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toDebtResponse(d core.DebtItem) debtResponse {
	return debtResponse{
		ID:                d.ID,
		Name:              d.Name,
		Kind:              string(d.Kind),
		Balance:           d.Balance.Dollars(),
		AnnualRatePercent: d.AnnualRatePercent,
		MinimumPayment:    d.MinimumPayment.Dollars(),
		CreditLimit:       d.CreditLimit.Dollars(),
	}
}
