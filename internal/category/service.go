package category

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, budgetID uuid.UUID) ([]*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	MonthlyBudgetID uuid.UUID
	Title           string
	Type            Type
	AmountBudgeted  float64
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Category, error) {
	c := &Category{
		MonthlyBudgetID: params.MonthlyBudgetID,
		Title:           params.Title,
		Type:            params.Type,
		AmountBudgeted:  params.AmountBudgeted,
	}

	if c.Type == "" {
		c.Type = TypeExpense
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// ListByBudget returns all categories belonging to the given monthly budget.
func (s *Service) ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]*Category, error) {
	return s.repo.ListCategories(ctx, budgetID)
}

func (s *Service) Update(ctx context.Context, c *Category) error {
	return s.repo.UpdateCategory(ctx, c)
}

// Delete removes the category. Its transactions go with it via the schema's
// cascade rule.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}
