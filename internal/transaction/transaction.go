package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a transaction does not exist.
var ErrNotFound = errors.New("transaction not found")

// Transaction represents money moving against a budget category.
//
// Sign convention: a positive amount is an expense, a negative amount is
// income or a credit (for example a rollover from the previous month). Every
// caller in this codebase follows this convention.
type Transaction struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Title       string
	Amount      float64
	Date        time.Time // calendar date; time of day is not modeled
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
