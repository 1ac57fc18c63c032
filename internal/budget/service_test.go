package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/budgie-app/budgie/internal/budget"
	"github.com/budgie-app/budgie/internal/category"
	"github.com/budgie-app/budgie/internal/transaction"
)

func newService(t *testing.T) (*budget.Service, *budget.MockRepository, *budget.MockCategoryDirectory, *budget.MockTransactionLog) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := budget.NewMockRepository(ctrl)
	cats := budget.NewMockCategoryDirectory(ctrl)
	txs := budget.NewMockTransactionLog(ctrl)

	return budget.NewService(repo, cats, txs), repo, cats, txs
}

func TestService_Create_NormalizesMonth(t *testing.T) {
	svc, repo, _, _ := newService(t)

	repo.EXPECT().
		CreateBudget(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *budget.MonthlyBudget) error {
			b.ID = uuid.New()
			return nil
		})

	got, err := svc.Create(context.Background(), budget.CreateParams{
		Month: time.Date(2026, 8, 17, 14, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), got.Month)
}

func TestService_Create_ClonesCategories(t *testing.T) {
	svc, repo, cats, _ := newService(t)

	prevID := uuid.New()

	repo.EXPECT().
		CreateBudget(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *budget.MonthlyBudget) error {
			b.ID = uuid.New()
			return nil
		})

	cats.EXPECT().
		ListByBudget(gomock.Any(), prevID).
		Return([]*category.Category{
			{ID: uuid.New(), Title: "Groceries", Type: category.TypeExpense, AmountBudgeted: 450},
			{ID: uuid.New(), Title: "Salary", Type: category.TypeIncome, AmountBudgeted: -3000},
		}, nil)

	var cloned []category.CreateParams

	cats.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Times(2).
		DoAndReturn(func(_ context.Context, p category.CreateParams) (*category.Category, error) {
			cloned = append(cloned, p)
			return &category.Category{ID: uuid.New(), Title: p.Title}, nil
		})

	got, err := svc.Create(context.Background(), budget.CreateParams{
		Month:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CloneFrom: &prevID,
	})
	require.NoError(t, err)
	require.Len(t, cloned, 2)
	assert.Equal(t, "Groceries", cloned[0].Title)
	assert.Equal(t, got.ID, cloned[0].MonthlyBudgetID)
	assert.Equal(t, 450.0, cloned[0].AmountBudgeted)
}

func TestService_Summarize(t *testing.T) {
	svc, repo, cats, txs := newService(t)

	budgetID := uuid.New()
	groceries := &category.Category{ID: uuid.New(), Title: "Groceries", AmountBudgeted: 400}
	transport := &category.Category{ID: uuid.New(), Title: "Transport", AmountBudgeted: 100}

	repo.EXPECT().
		GetBudget(gomock.Any(), budgetID).
		Return(&budget.MonthlyBudget{ID: budgetID, Month: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}, nil)
	cats.EXPECT().
		ListByBudget(gomock.Any(), budgetID).
		Return([]*category.Category{groceries, transport}, nil)
	txs.EXPECT().
		ListByBudget(gomock.Any(), budgetID).
		Return([]*transaction.Transaction{
			{CategoryID: groceries.ID, Amount: 120.50},
			{CategoryID: groceries.ID, Amount: 30},
			{CategoryID: groceries.ID, Amount: -50}, // credit reduces spent
		}, nil)

	summary, err := svc.Summarize(context.Background(), budgetID)
	require.NoError(t, err)
	require.Len(t, summary.Categories, 2)

	assert.InDelta(t, 100.50, summary.Categories[0].Spent, 0.001)
	assert.InDelta(t, 299.50, summary.Categories[0].Remaining, 0.001)
	assert.InDelta(t, 0, summary.Categories[1].Spent, 0.001)
	assert.InDelta(t, 500, summary.TotalPlanned, 0.001)
	assert.InDelta(t, 100.50, summary.TotalSpent, 0.001)
}

func TestService_Rollover(t *testing.T) {
	svc, repo, cats, txs := newService(t)

	month := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	budgetID := uuid.New()
	prevBudgetID := uuid.New()
	catID := uuid.New()
	prevCatID := uuid.New()

	repo.EXPECT().
		GetBudget(gomock.Any(), budgetID).
		Return(&budget.MonthlyBudget{ID: budgetID, Month: month}, nil)
	cats.EXPECT().
		Get(gomock.Any(), catID).
		Return(&category.Category{ID: catID, Title: "Groceries", AmountBudgeted: 400}, nil)
	repo.EXPECT().
		GetBudgetByMonth(gomock.Any(), time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)).
		Return(&budget.MonthlyBudget{ID: prevBudgetID, Month: month.AddDate(0, -1, 0)}, nil)
	cats.EXPECT().
		ListByBudget(gomock.Any(), prevBudgetID).
		Return([]*category.Category{
			{ID: prevCatID, Title: "Groceries", AmountBudgeted: 400},
		}, nil)
	txs.EXPECT().
		ListByBudget(gomock.Any(), prevBudgetID).
		Return([]*transaction.Transaction{
			{CategoryID: prevCatID, Amount: 330},
		}, nil)
	txs.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p transaction.CreateParams) (*transaction.Transaction, error) {
			assert.Equal(t, "Rollover", p.Title)
			assert.InDelta(t, -70, p.Amount, 0.001)
			assert.Equal(t, month, p.Date)
			assert.Equal(t, catID, p.CategoryID)
			return &transaction.Transaction{ID: uuid.New(), Title: p.Title, Amount: p.Amount}, nil
		})

	tx, err := svc.Rollover(context.Background(), budgetID, catID)
	require.NoError(t, err)
	assert.InDelta(t, -70, tx.Amount, 0.001)
}

func TestService_Rollover_NothingUnspent(t *testing.T) {
	svc, repo, cats, txs := newService(t)

	month := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	budgetID := uuid.New()
	prevBudgetID := uuid.New()
	catID := uuid.New()
	prevCatID := uuid.New()

	repo.EXPECT().
		GetBudget(gomock.Any(), budgetID).
		Return(&budget.MonthlyBudget{ID: budgetID, Month: month}, nil)
	cats.EXPECT().
		Get(gomock.Any(), catID).
		Return(&category.Category{ID: catID, Title: "Groceries"}, nil)
	repo.EXPECT().
		GetBudgetByMonth(gomock.Any(), gomock.Any()).
		Return(&budget.MonthlyBudget{ID: prevBudgetID}, nil)
	cats.EXPECT().
		ListByBudget(gomock.Any(), prevBudgetID).
		Return([]*category.Category{
			{ID: prevCatID, Title: "Groceries", AmountBudgeted: 100},
		}, nil)
	txs.EXPECT().
		ListByBudget(gomock.Any(), prevBudgetID).
		Return([]*transaction.Transaction{
			{CategoryID: prevCatID, Amount: 150}, // overspent
		}, nil)

	_, err := svc.Rollover(context.Background(), budgetID, catID)
	assert.ErrorIs(t, err, budget.ErrNothingToRollover)
}

func TestService_Rollover_NoPreviousBudget(t *testing.T) {
	svc, repo, cats, _ := newService(t)

	budgetID := uuid.New()
	catID := uuid.New()

	repo.EXPECT().
		GetBudget(gomock.Any(), budgetID).
		Return(&budget.MonthlyBudget{ID: budgetID, Month: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}, nil)
	cats.EXPECT().
		Get(gomock.Any(), catID).
		Return(&category.Category{ID: catID, Title: "Groceries"}, nil)
	repo.EXPECT().
		GetBudgetByMonth(gomock.Any(), gomock.Any()).
		Return(nil, budget.ErrNotFound)

	_, err := svc.Rollover(context.Background(), budgetID, catID)
	assert.ErrorIs(t, err, budget.ErrNothingToRollover)
}
