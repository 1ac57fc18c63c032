package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/category"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(s scanner) (*category.Category, error) {
	var c category.Category

	var typeStr string

	if err := s.Scan(
		&c.ID, &c.MonthlyBudgetID, &c.Title, &typeStr, &c.AmountBudgeted,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.Type = category.Type(typeStr)

	return &c, nil
}

const selectCategoryColumns = `
	id, monthly_budget_id, title, type, amount_budgeted, created_at, updated_at
`

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (monthly_budget_id, title, type, amount_budgeted, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.MonthlyBudgetID,
		c.Title,
		c.Type,
		c.AmountBudgeted,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, budgetID uuid.UUID) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `
		FROM categories
		WHERE monthly_budget_id = $1
		ORDER BY title ASC`

	rows, err := s.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return cats, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET title = $1, type = $2, amount_budgeted = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := s.db.ExecContext(ctx, query, c.Title, c.Type, c.AmountBudgeted, c.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	// Transactions referencing the category are removed by ON DELETE CASCADE.
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	return nil
}
