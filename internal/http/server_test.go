package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prabavijay/financeflowapp2/internal/cache"
	"github.com/prabavijay/financeflowapp2/internal/core"
	"github.com/prabavijay/financeflowapp2/internal/payoff"
	"github.com/prabavijay/financeflowapp2/internal/services"
)

// memStore is an in-memory stand-in for the SQLite repository.
type memStore struct {
	nextID int64
	debts  []core.DebtItem
	items  []core.BudgetLineItem
}

func (m *memStore) CreateDebt(ctx context.Context, d core.DebtItem) (int64, error) {
	m.nextID++
	d.ID = m.nextID
	m.debts = append(m.debts, d)
	return d.ID, nil
}

func (m *memStore) ListDebts(ctx context.Context) ([]core.DebtItem, error) {
	return m.debts, nil
}

func (m *memStore) DeleteDebt(ctx context.Context, id int64) error {
	for i, d := range m.debts {
		if d.ID == id {
			m.debts = append(m.debts[:i], m.debts[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) CreateBudgetItem(ctx context.Context, b core.BudgetLineItem) (int64, error) {
	m.nextID++
	b.ID = m.nextID
	m.items = append(m.items, b)
	return b.ID, nil
}

func (m *memStore) ListBudgetItems(ctx context.Context) ([]core.BudgetLineItem, error) {
	return m.items, nil
}

func (m *memStore) DeleteBudgetItem(ctx context.Context, id int64) error {
	for i, b := range m.items {
		if b.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newTestServer(store *memStore) *Server {
	bounds := payoff.ExtraPaymentBounds{
		Floor:   core.MoneyFromFloat(200),
		Ceiling: core.MoneyFromFloat(1000),
	}
	plans := services.NewPlanService(store, cache.NewMemoryCache(), nil, time.Minute, bounds)
	projections := services.NewProjectionService(store)
	return NewServer(":0", store, store, plans, projections)
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestDebtLifecycle(t *testing.T) {
	s := newTestServer(&memStore{})
	defer s.Shutdown(context.Background())

	rec := doRequest(t, s, http.MethodPost, "/api/debts",
		`{"name":"visa","kind":"credit_card","balance":5000,"annual_rate_percent":18,"minimum_payment":150,"credit_limit":6000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}

	var created debtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created debt: %v", err)
	}
	if created.ID == 0 || created.Name != "visa" || created.Balance != 5000 {
		t.Errorf("created = %+v", created)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/debts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []debtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed = %d debts, want 1", len(listed))
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/debts/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodDelete, "/api/debts/1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing status = %d, want 404", rec.Code)
	}
	rec = doRequest(t, s, http.MethodDelete, "/api/debts/zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("delete bad id status = %d, want 400", rec.Code)
	}
}

func TestCreateDebt_Invalid(t *testing.T) {
	s := newTestServer(&memStore{})
	defer s.Shutdown(context.Background())

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"unknown field", `{"name":"x","kind":"credit_card","balance":1,"annual_rate_percent":1,"minimum_payment":1,"color":"red"}`, http.StatusBadRequest},
		{"bad kind", `{"name":"x","kind":"payday","balance":1,"annual_rate_percent":1,"minimum_payment":1}`, http.StatusUnprocessableEntity},
		{"negative balance", `{"name":"x","kind":"credit_card","balance":-5,"annual_rate_percent":1,"minimum_payment":1}`, http.StatusUnprocessableEntity},
		{"empty name", `{"name":"","kind":"credit_card","balance":1,"annual_rate_percent":1,"minimum_payment":1}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/debts", tc.body)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body)
			}
		})
	}
}

func TestBudgetItemLifecycle(t *testing.T) {
	s := newTestServer(&memStore{})
	defer s.Shutdown(context.Background())

	rec := doRequest(t, s, http.MethodPost, "/api/budget-items",
		`{"name":"paycheck","type":"income","amount":2000,"category":"salary","frequency":"bi-weekly","anchor_day":5,"start_date":"2025-01-03"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created budgetItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created item: %v", err)
	}
	if created.StartDate != "2025-01-03" || created.Frequency != "bi-weekly" {
		t.Errorf("created = %+v", created)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/budget-items",
		`{"name":"rent","type":"expense","amount":1200,"frequency":"monthly","anchor_day":0}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad anchor day status = %d, want 422", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/budget-items",
		`{"name":"rent","type":"expense","amount":1200,"frequency":"monthly","anchor_day":1,"start_date":"01/03/2025"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad start_date status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/budget-items/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestPlanEndpoint(t *testing.T) {
	store := &memStore{}
	s := newTestServer(store)
	defer s.Shutdown(context.Background())

	doRequest(t, s, http.MethodPost, "/api/debts",
		`{"name":"visa","kind":"credit_card","balance":5000,"annual_rate_percent":18,"minimum_payment":150}`)
	doRequest(t, s, http.MethodPost, "/api/debts",
		`{"name":"car","kind":"auto_loan","balance":8000,"annual_rate_percent":6,"minimum_payment":200}`)

	rec := doRequest(t, s, http.MethodGet, "/api/payoff/plan?strategy=avalanche&budget=500", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("plan status = %d, body %s", rec.Code, rec.Body)
	}
	var plan services.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Strategy != "avalanche" || len(plan.Items) != 2 {
		t.Errorf("plan = %+v", plan)
	}
	// Avalanche pays the 18% debt first.
	if plan.Items[0].Name != "visa" {
		t.Errorf("head = %s, want visa", plan.Items[0].Name)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/payoff/plan?strategy=compare", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("compare status = %d, body %s", rec.Code, rec.Body)
	}
	var comparison services.ComparisonResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &comparison); err != nil {
		t.Fatalf("decode comparison: %v", err)
	}
	if comparison.Best == "" {
		t.Error("comparison has no best strategy")
	}

	rec = doRequest(t, s, http.MethodGet, "/api/payoff/plan?strategy=waterfall", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown strategy status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/payoff/plan?budget=100", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("insufficient budget status = %d, want 422 (body %s)", rec.Code, rec.Body)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/payoff/plan?budget=12.x5", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad budget status = %d, want 400", rec.Code)
	}
}

func TestProjectionEndpoint(t *testing.T) {
	s := newTestServer(&memStore{})
	defer s.Shutdown(context.Background())

	doRequest(t, s, http.MethodPost, "/api/budget-items",
		`{"name":"rent","type":"expense","amount":1200,"category":"housing","frequency":"monthly","anchor_day":31}`)

	rec := doRequest(t, s, http.MethodGet, "/api/projection?year=2025&month=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("projection status = %d, body %s", rec.Code, rec.Body)
	}
	var resp services.ProjectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode projection: %v", err)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(resp.Events))
	}
	// Anchor day 31 clamps to the end of February.
	if resp.Events[0].Date != "2025-02-28" {
		t.Errorf("event date = %s, want 2025-02-28", resp.Events[0].Date)
	}
	if resp.TotalExpenses != 1200 || resp.Net != -1200 {
		t.Errorf("totals = %v/%v", resp.TotalExpenses, resp.Net)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/projection?year=2025&month=13", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid month status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(&memStore{})
	defer s.Shutdown(context.Background())

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request 61 should be limited")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("different client should not be limited")
	}
}
