package smartlog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/category"
	"github.com/budgie-app/budgie/internal/http/respond"
	"github.com/budgie-app/budgie/internal/receipt"
	"github.com/budgie-app/budgie/internal/smartlog"
	"github.com/budgie-app/budgie/internal/transaction"
)

// Analyzer runs the extraction conversation. *smartlog.Orchestrator
// satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, in smartlog.Input) ([]smartlog.Suggestion, error)
}

// CategoryDirectory lists the categories of a monthly budget.
type CategoryDirectory interface {
	ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]*category.Category, error)
}

// TransactionLog reads and batch-writes transactions for a monthly budget.
type TransactionLog interface {
	ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]*transaction.Transaction, error)
	CreateBatch(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

type Handler struct {
	analyzer     Analyzer
	categories   CategoryDirectory
	transactions TransactionLog
}

func NewHandler(analyzer Analyzer, categories CategoryDirectory, transactions TransactionLog) *Handler {
	return &Handler{
		analyzer:     analyzer,
		categories:   categories,
		transactions: transactions,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.analyze)
	r.Post("/submit", h.submit)
}

type analyzeRequest struct {
	Images          []string `json:"images"`
	MonthlyBudgetID string   `json:"monthly_budget_id"`
}

type analyzeResponse struct {
	Suggestions []smartlog.Suggestion `json:"suggestions"`
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Images) == 0 {
		respond.Error(w, http.StatusBadRequest, "No images provided")
		return
	}

	if req.MonthlyBudgetID == "" {
		respond.Error(w, http.StatusBadRequest, "Monthly budget ID is required")
		return
	}

	budgetID, err := uuid.Parse(req.MonthlyBudgetID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid monthly budget ID")
		return
	}

	var batch receipt.Batch

	for _, payload := range req.Images {
		raw, err := receipt.DecodePayload(payload)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid image data")
			return
		}

		// Images beyond the cap are dropped, matching the intake limit.
		batch.Add(raw)
	}

	images, err := batch.Normalize()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid image data")
		return
	}

	categories, err := h.categories.ListByBudget(r.Context(), budgetID)
	if err != nil {
		slog.Error("failed to fetch categories", "budget_id", budgetID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch budget data")

		return
	}

	transactions, err := h.transactions.ListByBudget(r.Context(), budgetID)
	if err != nil {
		slog.Error("failed to fetch transactions", "budget_id", budgetID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch budget data")

		return
	}

	suggestions, err := h.analyzer.Analyze(r.Context(), smartlog.Input{
		Images:       images,
		Categories:   toCategoryContext(categories),
		Transactions: toTransactionContext(transactions),
	})
	if err != nil {
		if errors.Is(err, smartlog.ErrNoCredential) {
			respond.Error(w, http.StatusInternalServerError, "Gemini API key not configured")
			return
		}

		slog.Error("receipt analysis failed", "budget_id", budgetID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to analyze images")

		return
	}

	if suggestions == nil {
		suggestions = []smartlog.Suggestion{}
	}

	respond.JSON(w, http.StatusOK, analyzeResponse{Suggestions: suggestions})
}

type submitEntry struct {
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	CategoryID  string  `json:"category_id"`
	Date        string  `json:"transaction_date"`
	Description string  `json:"description"`
}

type submitRequest struct {
	Transactions []submitEntry `json:"transactions"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Transactions) == 0 {
		respond.Error(w, http.StatusBadRequest, "No transactions provided")
		return
	}

	params := make([]transaction.CreateParams, len(req.Transactions))

	for i, entry := range req.Transactions {
		categoryID, err := uuid.Parse(entry.CategoryID)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid category ID")
			return
		}

		date, err := time.Parse(time.DateOnly, entry.Date)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid transaction date")
			return
		}

		params[i] = transaction.CreateParams{
			CategoryID:  categoryID,
			Title:       entry.Title,
			Amount:      entry.Amount,
			Date:        date,
			Description: entry.Description,
		}
	}

	if _, err := h.transactions.CreateBatch(r.Context(), params); err != nil {
		slog.Error("failed to create transactions", "count", len(params), "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create transactions")

		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func toCategoryContext(categories []*category.Category) []smartlog.CategoryContext {
	out := make([]smartlog.CategoryContext, len(categories))
	for i, c := range categories {
		out[i] = smartlog.CategoryContext{
			ID:       c.ID.String(),
			Title:    c.Title,
			Budgeted: c.AmountBudgeted,
		}
	}

	return out
}

func toTransactionContext(transactions []*transaction.Transaction) []smartlog.TransactionContext {
	out := make([]smartlog.TransactionContext, len(transactions))
	for i, tx := range transactions {
		out[i] = smartlog.TransactionContext{
			ID:     tx.ID.String(),
			Title:  tx.Title,
			Amount: tx.Amount,
			Date:   tx.Date.Format(time.DateOnly),
		}
	}

	return out
}
