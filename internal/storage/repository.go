// Package storage persists debt and budget records in SQLite. It hands the
// calculation packages fully validated core records; none of the payoff or
// projection math lives here.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prabavijay/financeflowapp2/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateDebt inserts a debt record and returns its ID.
func (r *SQLiteRepository) CreateDebt(ctx context.Context, d core.DebtItem) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, fmt.Errorf("validate debt: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO debts (name, kind, balance_cents, annual_rate_percent, minimum_payment_cents, credit_limit_cents)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.Name, string(d.Kind), d.Balance.Cents, d.AnnualRatePercent,
		d.MinimumPayment.Cents, d.CreditLimit.Cents)
	if err != nil {
		return 0, fmt.Errorf("insert debt: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("debt insert id: %w", err)
	}

	slog.InfoContext(ctx, "Debt saved",
		"id", id,
		"name", d.Name,
		"kind", d.Kind,
		"balance_cents", d.Balance.Cents)

	return id, nil
}

// ListDebts returns all debt records ordered by name.
func (r *SQLiteRepository) ListDebts(ctx context.Context) ([]core.DebtItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind, balance_cents, annual_rate_percent, minimum_payment_cents, credit_limit_cents
		FROM debts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()

	var debts []core.DebtItem
	for rows.Next() {
		var d core.DebtItem
		var kind string
		if err := rows.Scan(&d.ID, &d.Name, &kind, &d.Balance.Cents,
			&d.AnnualRatePercent, &d.MinimumPayment.Cents, &d.CreditLimit.Cents); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		d.Kind = core.DebtKind(kind)
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debts: %w", err)
	}

	return debts, nil
}

// DeleteDebt removes a debt record by ID.
func (r *SQLiteRepository) DeleteDebt(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete debt rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	slog.InfoContext(ctx, "Debt deleted", "id", id)
	return nil
}

// CreateBudgetItem inserts a budget line item and returns its ID.
func (r *SQLiteRepository) CreateBudgetItem(ctx context.Context, b core.BudgetLineItem) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("validate budget item: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budget_items (name, item_type, amount_cents, category, frequency, anchor_day, start_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Name, string(b.Type), b.Amount.Cents, b.Category,
		string(b.Frequency), b.AnchorDay, b.StartDate.Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("insert budget item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("budget item insert id: %w", err)
	}

	slog.InfoContext(ctx, "Budget item saved",
		"id", id,
		"name", b.Name,
		"item_type", b.Type,
		"frequency", b.Frequency,
		"amount_cents", b.Amount.Cents)

	return id, nil
}

// ListBudgetItems returns all budget line items in insertion order.
func (r *SQLiteRepository) ListBudgetItems(ctx context.Context) ([]core.BudgetLineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, item_type, amount_cents, category, frequency, anchor_day, start_date
		FROM budget_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query budget items: %w", err)
	}
	defer rows.Close()

	var items []core.BudgetLineItem
	for rows.Next() {
		var b core.BudgetLineItem
		var itemType, frequency, startDate string
		if err := rows.Scan(&b.ID, &b.Name, &itemType, &b.Amount.Cents,
			&b.Category, &frequency, &b.AnchorDay, &startDate); err != nil {
			return nil, fmt.Errorf("scan budget item: %w", err)
		}
		b.Type = core.ItemType(itemType)
		b.Frequency = core.Frequency(frequency)
		if parsed, err := time.Parse(dateLayout, startDate); err == nil {
			b.StartDate = core.Date{Time: parsed}
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget items: %w", err)
	}

	return items, nil
}

// DeleteBudgetItem removes a budget line item by ID.
func (r *SQLiteRepository) DeleteBudgetItem(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budget_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget item rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	slog.InfoContext(ctx, "Budget item deleted", "id", id)
	return nil
}
