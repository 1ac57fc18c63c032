package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	CategoryID  uuid.UUID
	Title       string
	Amount      float64
	Date        time.Time
	Description string
}

type ListFilter struct {
	CategoryID *uuid.UUID
	BudgetID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := &Transaction{
		CategoryID:  params.CategoryID,
		Title:       params.Title,
		Amount:      params.Amount,
		Date:        params.Date,
		Description: params.Description,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// CreateBatch persists all given transactions in a single database
// transaction. Either all of them are created or none are.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = &Transaction{
			CategoryID:  p.CategoryID,
			Title:       p.Title,
			Amount:      p.Amount,
			Date:        p.Date,
			Description: p.Description,
		}
	}

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	return txs, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// ListByBudget returns every transaction logged against any category of the
// given monthly budget.
func (s *Service) ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ListFilter{BudgetID: &budgetID})
}

func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}
