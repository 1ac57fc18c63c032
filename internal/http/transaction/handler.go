package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/http/respond"
	"github.com/budgie-app/budgie/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	CategoryID  uuid.UUID `json:"category_id"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid date")
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}

	if s := r.URL.Query().Get("category_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.CategoryID = &id
		}
	}

	if s := r.URL.Query().Get("monthly_budget_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.BudgetID = &id
		}
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "transaction not found")
			return
		}

		respond.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

type updateTransactionRequest struct {
	Title       *string  `json:"title,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Description *string  `json:"description,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "transaction not found")
			return
		}

		respond.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	if req.Title != nil {
		tx.Title = *req.Title
	}

	if req.Amount != nil {
		tx.Amount = *req.Amount
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid date")
			return
		}

		tx.Date = date
	}

	if req.Description != nil {
		tx.Description = *req.Description
	}

	if err := h.svc.Update(r.Context(), tx); err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
