// Package smartlog extracts candidate transactions from receipt images with
// a generative model and walks them through a review-and-commit workflow.
package smartlog

// Confidence is the model-reported certainty of a suggestion.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// parseConfidence maps a model-supplied value onto a known confidence level,
// defaulting to medium for anything unrecognized.
func parseConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(s)
	default:
		return ConfidenceMedium
	}
}

// Status is the review state of a suggestion.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Suggestion is a candidate transaction extracted from a receipt image. It
// lives only for the duration of one review session and is never persisted
// as-is; committing maps approved suggestions to real transactions.
type Suggestion struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Amount       float64    `json:"amount"` // positive magnitude, expense
	CategoryID   string     `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Date         string     `json:"transaction_date"` // YYYY-MM-DD
	Description  string     `json:"description,omitempty"`
	Confidence   Confidence `json:"confidence"`
	Status       Status     `json:"status"`
}

// CategoryContext is the category view handed to the model.
type CategoryContext struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Budgeted float64 `json:"budgeted"`
}

// TransactionContext is the existing-transaction view handed to the model so
// it can avoid suggesting duplicates.
type TransactionContext struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"` // YYYY-MM-DD
}
