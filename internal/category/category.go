package category

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type represents the kind of category (expense or income).
type Type string

const (
	TypeExpense Type = "expense"
	TypeIncome  Type = "income"
)

// ErrNotFound is returned when a category does not exist.
var ErrNotFound = errors.New("category not found")

// Category represents a budget category for a single month.
type Category struct {
	ID              uuid.UUID
	MonthlyBudgetID uuid.UUID
	Title           string
	Type            Type
	AmountBudgeted  float64
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
