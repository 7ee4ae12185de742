// Package http exposes the planner over a JSON API: debt and budget item
// CRUD, payoff plan computation, and monthly cash-flow projection.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prabavijay/financeflowapp2/internal/core"
	"github.com/prabavijay/financeflowapp2/internal/services"
)

type (
	// DebtStore persists debt records for the API.
	DebtStore interface {
		CreateDebt(ctx context.Context, d core.DebtItem) (int64, error)
		ListDebts(ctx context.Context) ([]core.DebtItem, error)
		DeleteDebt(ctx context.Context, id int64) error
	}

	// BudgetStore persists budget line items for the API.
	BudgetStore interface {
		CreateBudgetItem(ctx context.Context, b core.BudgetLineItem) (int64, error)
		ListBudgetItems(ctx context.Context) ([]core.BudgetLineItem, error)
		DeleteBudgetItem(ctx context.Context, id int64) error
	}
)

type Server struct {
	http.Server
	debts        DebtStore
	budget       BudgetStore
	plans        *services.PlanService
	projections  *services.ProjectionService
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, debts DebtStore, budget BudgetStore,
	plans *services.PlanService, projections *services.ProjectionService,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		debts:       debts,
		budget:      budget,
		plans:       plans,
		projections: projections,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("POST /api/debts", s.withRequestContext(s.handleCreateDebt))
	mux.HandleFunc("GET /api/debts", s.withRequestContext(s.handleListDebts))
	mux.HandleFunc("DELETE /api/debts/{id}", s.withRequestContext(s.handleDeleteDebt))

	mux.HandleFunc("POST /api/budget-items", s.withRequestContext(s.handleCreateBudgetItem))
	mux.HandleFunc("GET /api/budget-items", s.withRequestContext(s.handleListBudgetItems))
	mux.HandleFunc("DELETE /api/budget-items/{id}", s.withRequestContext(s.handleDeleteBudgetItem))

	mux.HandleFunc("GET /api/payoff/plan", s.withRequestContext(s.handlePlan))
	mux.HandleFunc("GET /api/projection", s.withRequestContext(s.handleProjection))

	return s
}

// Shutdown stops the rate limiter cleanup goroutine and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withRequestContext adds a request ID, request logging, standard response
// headers, and rate limiting for mutating requests.
func (s *Server) withRequestContext(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
