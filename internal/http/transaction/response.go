package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/transaction"
)

type transactionResponse struct {
	ID          uuid.UUID  `json:"id"`
	CategoryID  uuid.UUID  `json:"category_id"`
	Title       string     `json:"title"`
	Amount      float64    `json:"amount"`
	Date        string     `json:"date"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		CategoryID:  tx.CategoryID,
		Title:       tx.Title,
		Amount:      tx.Amount,
		Date:        tx.Date.Format(time.DateOnly),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
