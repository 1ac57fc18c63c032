package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/budget"
	"github.com/budgie-app/budgie/internal/http/respond"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/current", h.current)
	r.Get("/{id}", h.get)
	r.Get("/{id}/summary", h.summary)
	r.Post("/{id}/categories/{categoryID}/rollover", h.rollover)
	r.Delete("/{id}", h.delete)
}

type createBudgetRequest struct {
	Month     string     `json:"month"` // YYYY-MM-DD, any day of the month
	CloneFrom *uuid.UUID `json:"clone_from,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	month, err := time.Parse(time.DateOnly, req.Month)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid month")
		return
	}

	b, err := h.svc.Create(r.Context(), budget.CreateParams{
		Month:     month,
		CloneFrom: req.CloneFrom,
	})
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(budgets))
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Current(r.Context())
	if err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "no budget for the current month")
			return
		}

		respond.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "budget not found")
			return
		}

		respond.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	summary, err := h.svc.Summarize(r.Context(), id)
	if err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "budget not found")
			return
		}

		respond.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (h *Handler) rollover(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	categoryID, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid category id")
		return
	}

	tx, err := h.svc.Rollover(r.Context(), id, categoryID)
	if err != nil {
		switch {
		case errors.Is(err, budget.ErrNothingToRollover):
			respond.Error(w, http.StatusConflict, "nothing to roll over")
		case errors.Is(err, budget.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "budget not found")
		default:
			respond.Error(w, http.StatusInternalServerError, "internal error")
		}

		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"transaction_id": tx.ID,
		"amount":         tx.Amount,
	})
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
