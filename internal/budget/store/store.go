package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(s scanner) (*budget.MonthlyBudget, error) {
	var b budget.MonthlyBudget

	if err := s.Scan(&b.ID, &b.Month, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	return &b, nil
}

const selectBudgetColumns = `id, month, created_at, updated_at`

func (s *Store) CreateBudget(ctx context.Context, b *budget.MonthlyBudget) error {
	query := `
		INSERT INTO monthly_budgets (month, created_at)
		VALUES ($1, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, b.Month).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating monthly budget: %w", err)
	}

	return nil
}

func (s *Store) GetBudget(ctx context.Context, id uuid.UUID) (*budget.MonthlyBudget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM monthly_budgets WHERE id = $1`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting monthly budget: %w", err)
	}

	return b, nil
}

func (s *Store) GetBudgetByMonth(ctx context.Context, month time.Time) (*budget.MonthlyBudget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM monthly_budgets WHERE month = $1`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, month))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting monthly budget by month: %w", err)
	}

	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context) ([]*budget.MonthlyBudget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM monthly_budgets ORDER BY month DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing monthly budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.MonthlyBudget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning monthly budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget rows: %w", err)
	}

	return budgets, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	// Categories and their transactions cascade via the schema.
	_, err := s.db.ExecContext(ctx, `DELETE FROM monthly_budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting monthly budget: %w", err)
	}

	return nil
}
