package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/budgie-app/budgie/internal/category"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    category.CreateParams
		setupMock func(m *category.MockRepository)
		wantType  category.Type
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: category.CreateParams{
				MonthlyBudgetID: uuid.New(),
				Title:           "Groceries",
				Type:            category.TypeExpense,
				AmountBudgeted:  450,
			},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *category.Category) error {
						c.ID = uuid.New()
						return nil
					})
			},
			wantType: category.TypeExpense,
			wantErr:  false,
		},
		{
			name: "DefaultsToExpense",
			params: category.CreateParams{
				MonthlyBudgetID: uuid.New(),
				Title:           "Rent",
			},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *category.Category) error {
						c.ID = uuid.New()
						return nil
					})
			},
			wantType: category.TypeExpense,
			wantErr:  false,
		},
		{
			name: "RepoError",
			params: category.CreateParams{
				MonthlyBudgetID: uuid.New(),
				Title:           "Fails",
			},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := category.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.wantType, got.Type)
		})
	}
}

func TestService_ListByBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	budgetID := uuid.New()
	repo := category.NewMockRepository(ctrl)
	repo.EXPECT().
		ListCategories(gomock.Any(), budgetID).
		Return([]*category.Category{
			{ID: uuid.New(), Title: "Groceries"},
			{ID: uuid.New(), Title: "Transport"},
		}, nil)

	svc := category.NewService(repo)
	got, err := svc.ListByBudget(context.Background(), budgetID)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
}
