package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prabavijay/financeflowapp2/internal/core"
)

// handleProjection expands stored budget items into dated cash-flow events.
// Query parameters year and month default to the current calendar month.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	year, ok := queryInt(r, "year", now.Year())
	if !ok || year < 1 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, ok := queryInt(r, "month", int(now.Month()))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	resp, err := s.projections.ProjectMonth(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, core.ErrInvalidMonth) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Projection failed",
			"year", year, "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to project month")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
