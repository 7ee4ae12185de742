package http

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prabavijay/financeflowapp2/internal/core"
)

type (
	budgetItemRequest struct {
		Name      string  `json:"name"`
		Type      string  `json:"type"`
		Amount    float64 `json:"amount"`
		Category  string  `json:"category,omitempty"`
		Frequency string  `json:"frequency"`
		AnchorDay int     `json:"anchor_day"`
		StartDate string  `json:"start_date,omitempty"`
	}

	budgetItemResponse struct {
		ID        int64   `json:"id"`
		Name      string  `json:"name"`
		Type      string  `json:"type"`
		Amount    float64 `json:"amount"`
		Category  string  `json:"category,omitempty"`
		Frequency string  `json:"frequency"`
		AnchorDay int     `json:"anchor_day"`
		StartDate string  `json:"start_date,omitempty"`
	}
)

const startDateLayout = "2006-01-02"

func (s *Server) handleCreateBudgetItem(w http.ResponseWriter, r *http.Request) {
	var req budgetItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	item := core.BudgetLineItem{
		Name:      req.Name,
		Type:      core.ItemType(req.Type),
		Amount:    core.MoneyFromFloat(req.Amount),
		Category:  req.Category,
		Frequency: core.Frequency(req.Frequency),
		AnchorDay: req.AnchorDay,
	}
	if req.StartDate != "" {
		parsed, err := time.Parse(startDateLayout, req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date, want YYYY-MM-DD")
			return
		}
		item.StartDate = core.Date{Time: parsed}
	}
	if err := item.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.budget.CreateBudgetItem(r.Context(), item)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create budget item",
			"item_name", item.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save budget item")
		return
	}

	item.ID = id
	writeJSON(w, http.StatusCreated, toBudgetItemResponse(item))
}

func (s *Server) handleListBudgetItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.budget.ListBudgetItems(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list budget items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load budget items")
		return
	}

	resp := make([]budgetItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toBudgetItemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteBudgetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid budget item id")
		return
	}

	if err := s.budget.DeleteBudgetItem(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "budget item not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete budget item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete budget item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toBudgetItemResponse(b core.BudgetLineItem) budgetItemResponse {
	resp := budgetItemResponse{
		ID:        b.ID,
		Name:      b.Name,
		Type:      string(b.Type),
		Amount:    b.Amount.Dollars(),
		Category:  b.Category,
		Frequency: string(b.Frequency),
		AnchorDay: b.AnchorDay,
	}
	if !b.StartDate.IsZero() {
		resp.StartDate = b.StartDate.Format(startDateLayout)
	}
	return resp
}
