package budget

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/category"
)

var (
	// ErrNotFound is returned when a monthly budget does not exist.
	ErrNotFound = errors.New("monthly budget not found")

	// ErrNothingToRollover is returned when the previous month holds no
	// unspent amount for the requested category.
	ErrNothingToRollover = errors.New("nothing to roll over")
)

// MonthlyBudget groups the categories for a single calendar month.
type MonthlyBudget struct {
	ID        uuid.UUID
	Month     time.Time // first day of the month
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Summary is the planned/spent/remaining rollup for one budget.
type Summary struct {
	Budget         *MonthlyBudget
	Categories     []CategorySummary
	TotalPlanned   float64
	TotalSpent     float64
	TotalRemaining float64
}

// CategorySummary is the rollup for a single category.
type CategorySummary struct {
	Category  *category.Category
	Planned   float64
	Spent     float64
	Remaining float64
}

// firstOfMonth truncates t to the first day of its month in UTC.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
