package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/category"
)

type categoryResponse struct {
	ID              uuid.UUID     `json:"id"`
	MonthlyBudgetID uuid.UUID     `json:"monthly_budget_id"`
	Title           string        `json:"title"`
	Type            category.Type `json:"type"`
	AmountBudgeted  float64       `json:"amount_budgeted"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
}

func toResponse(c *category.Category) categoryResponse {
	return categoryResponse{
		ID:              c.ID,
		MonthlyBudgetID: c.MonthlyBudgetID,
		Title:           c.Title,
		Type:            c.Type,
		AmountBudgeted:  c.AmountBudgeted,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toResponseList(cats []*category.Category) []categoryResponse {
	resp := make([]categoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = toResponse(c)
	}

	return resp
}
