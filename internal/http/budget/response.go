package budget

import (
	"time"

	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/budget"
)

type budgetResponse struct {
	ID        uuid.UUID  `json:"id"`
	Month     string     `json:"month"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(b *budget.MonthlyBudget) budgetResponse {
	return budgetResponse{
		ID:        b.ID,
		Month:     b.Month.Format(time.DateOnly),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toResponseList(budgets []*budget.MonthlyBudget) []budgetResponse {
	resp := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toResponse(b)
	}

	return resp
}

type categorySummaryResponse struct {
	CategoryID uuid.UUID `json:"category_id"`
	Title      string    `json:"title"`
	Planned    float64   `json:"planned"`
	Spent      float64   `json:"spent"`
	Remaining  float64   `json:"remaining"`
}

type summaryResponse struct {
	Budget         budgetResponse            `json:"budget"`
	Categories     []categorySummaryResponse `json:"categories"`
	TotalPlanned   float64                   `json:"total_planned"`
	TotalSpent     float64                   `json:"total_spent"`
	TotalRemaining float64                   `json:"total_remaining"`
}

func toSummaryResponse(s *budget.Summary) summaryResponse {
	resp := summaryResponse{
		Budget:         toResponse(s.Budget),
		Categories:     make([]categorySummaryResponse, len(s.Categories)),
		TotalPlanned:   s.TotalPlanned,
		TotalSpent:     s.TotalSpent,
		TotalRemaining: s.TotalRemaining,
	}

	for i, cs := range s.Categories {
		resp.Categories[i] = categorySummaryResponse{
			CategoryID: cs.Category.ID,
			Title:      cs.Category.Title,
			Planned:    cs.Planned,
			Spent:      cs.Spent,
			Remaining:  cs.Remaining,
		}
	}

	return resp
}
