package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/category"
	"github.com/budgie-app/budgie/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=budget
type Repository interface {
	CreateBudget(ctx context.Context, b *MonthlyBudget) error
	GetBudget(ctx context.Context, id uuid.UUID) (*MonthlyBudget, error)
	GetBudgetByMonth(ctx context.Context, month time.Time) (*MonthlyBudget, error)
	ListBudgets(ctx context.Context) ([]*MonthlyBudget, error)
	DeleteBudget(ctx context.Context, id uuid.UUID) error
}

// CategoryDirectory is the slice of the category service the budget service
// needs.
type CategoryDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*category.Category, error)
	ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]*category.Category, error)
	Create(ctx context.Context, params category.CreateParams) (*category.Category, error)
}

// TransactionLog is the slice of the transaction service the budget service
// needs.
type TransactionLog interface {
	ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]*transaction.Transaction, error)
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

type Service struct {
	repo         Repository
	categories   CategoryDirectory
	transactions TransactionLog
}

func NewService(repo Repository, categories CategoryDirectory, transactions TransactionLog) *Service {
	return &Service{
		repo:         repo,
		categories:   categories,
		transactions: transactions,
	}
}

type CreateParams struct {
	Month time.Time
	// CloneFrom optionally names a budget whose categories are copied into
	// the new one (titles, types and planned amounts only).
	CloneFrom *uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*MonthlyBudget, error) {
	b := &MonthlyBudget{Month: firstOfMonth(params.Month)}

	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, err
	}

	if params.CloneFrom == nil {
		return b, nil
	}

	cats, err := s.categories.ListByBudget(ctx, *params.CloneFrom)
	if err != nil {
		return nil, fmt.Errorf("listing categories to clone: %w", err)
	}

	for _, c := range cats {
		_, err := s.categories.Create(ctx, category.CreateParams{
			MonthlyBudgetID: b.ID,
			Title:           c.Title,
			Type:            c.Type,
			AmountBudgeted:  c.AmountBudgeted,
		})
		if err != nil {
			return nil, fmt.Errorf("cloning category %q: %w", c.Title, err)
		}
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MonthlyBudget, error) {
	return s.repo.GetBudget(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*MonthlyBudget, error) {
	return s.repo.ListBudgets(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBudget(ctx, id)
}

// Current returns the budget covering today's date.
func (s *Service) Current(ctx context.Context) (*MonthlyBudget, error) {
	return s.repo.GetBudgetByMonth(ctx, firstOfMonth(time.Now().UTC()))
}

// Summarize computes the planned/spent/remaining rollup for every category of
// the budget. Spent follows the sign convention: expenses are positive, so
// credits and rollovers reduce the spent figure.
func (s *Service) Summarize(ctx context.Context, budgetID uuid.UUID) (*Summary, error) {
	b, err := s.repo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	cats, err := s.categories.ListByBudget(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	txs, err := s.transactions.ListByBudget(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	spentByCategory := make(map[uuid.UUID]float64, len(cats))
	for _, tx := range txs {
		spentByCategory[tx.CategoryID] += tx.Amount
	}

	summary := &Summary{
		Budget:     b,
		Categories: make([]CategorySummary, 0, len(cats)),
	}

	for _, c := range cats {
		spent := spentByCategory[c.ID]
		cs := CategorySummary{
			Category:  c,
			Planned:   c.AmountBudgeted,
			Spent:     spent,
			Remaining: c.AmountBudgeted - spent,
		}

		summary.Categories = append(summary.Categories, cs)
		summary.TotalPlanned += cs.Planned
		summary.TotalSpent += cs.Spent
		summary.TotalRemaining += cs.Remaining
	}

	return summary, nil
}

// Rollover carries the previous month's unspent amount for the given category
// into this budget as a synthetic credit transaction titled "Rollover", dated
// the first of the budget's month. The match against the previous month is by
// category title.
func (s *Service) Rollover(ctx context.Context, budgetID, categoryID uuid.UUID) (*transaction.Transaction, error) {
	b, err := s.repo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	target, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	unspent, err := s.previousUnspent(ctx, b, target.Title)
	if err != nil {
		return nil, err
	}

	if unspent <= 0 {
		return nil, ErrNothingToRollover
	}

	return s.transactions.Create(ctx, transaction.CreateParams{
		CategoryID: categoryID,
		Title:      "Rollover",
		Amount:     -unspent,
		Date:       b.Month,
	})
}

func (s *Service) previousUnspent(ctx context.Context, b *MonthlyBudget, title string) (float64, error) {
	prevMonth := b.Month.AddDate(0, -1, 0)

	prev, err := s.repo.GetBudgetByMonth(ctx, prevMonth)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrNothingToRollover
		}

		return 0, err
	}

	cats, err := s.categories.ListByBudget(ctx, prev.ID)
	if err != nil {
		return 0, fmt.Errorf("listing previous categories: %w", err)
	}

	var prevCat *category.Category

	for _, c := range cats {
		if c.Title == title {
			prevCat = c
			break
		}
	}

	if prevCat == nil {
		return 0, ErrNothingToRollover
	}

	txs, err := s.transactions.ListByBudget(ctx, prev.ID)
	if err != nil {
		return 0, fmt.Errorf("listing previous transactions: %w", err)
	}

	var spent float64

	for _, tx := range txs {
		if tx.CategoryID == prevCat.ID {
			spent += tx.Amount
		}
	}

	return prevCat.AmountBudgeted - spent, nil
}
