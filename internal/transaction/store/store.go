package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/transaction"
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

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	if err := s.Scan(
		&tx.ID, &tx.CategoryID, &tx.Title, &tx.Amount, &tx.Date, &tx.Description,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.category_id, t.title, t.amount, t.date, t.description, t.created_at, t.updated_at
`

const insertTransactionQuery = `
	INSERT INTO transactions (category_id, title, amount, date, description, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	RETURNING id, created_at
`

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	err := s.db.QueryRowContext(ctx, insertTransactionQuery,
		tx.CategoryID,
		tx.Title,
		tx.Amount,
		tx.Date,
		tx.Description,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

// CreateTransactions inserts all rows inside one database transaction.
func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, tx := range txs {
		err := dbTx.QueryRowContext(ctx, insertTransactionQuery,
			tx.CategoryID,
			tx.Title,
			tx.Amount,
			tx.Date,
			tx.Description,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t`

	if filter.BudgetID != nil {
		query += ` JOIN categories c ON t.category_id = c.id`
	}

	query += ` WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND t.category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.BudgetID != nil {
		query += fmt.Sprintf(" AND c.monthly_budget_id = $%d", argIdx)

		args = append(args, *filter.BudgetID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date ASC, t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $1, title = $2, amount = $3, date = $4, description = $5, updated_at = NOW()
		WHERE id = $6
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.CategoryID,
		tx.Title,
		tx.Amount,
		tx.Date,
		tx.Description,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}
