package category

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/category"
	"github.com/budgie-app/budgie/internal/http/respond"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createCategoryRequest struct {
	MonthlyBudgetID uuid.UUID     `json:"monthly_budget_id"`
	Title           string        `json:"title"`
	Type            category.Type `json:"type"`
	AmountBudgeted  float64       `json:"amount_budgeted"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	c, err := h.svc.Create(r.Context(), category.CreateParams{
		MonthlyBudgetID: req.MonthlyBudgetID,
		Title:           req.Title,
		Type:            req.Type,
		AmountBudgeted:  req.AmountBudgeted,
	})
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	budgetID, err := uuid.Parse(r.URL.Query().Get("monthly_budget_id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "monthly_budget_id is required")
		return
	}

	cats, err := h.svc.ListByBudget(r.Context(), budgetID)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(cats))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "category not found")
			return
		}

		respond.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

type updateCategoryRequest struct {
	Title          *string        `json:"title,omitempty"`
	Type           *category.Type `json:"type,omitempty"`
	AmountBudgeted *float64       `json:"amount_budgeted,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "category not found")
			return
		}

		respond.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	if req.Title != nil {
		c.Title = *req.Title
	}

	if req.Type != nil {
		c.Type = *req.Type
	}

	if req.AmountBudgeted != nil {
		c.AmountBudgeted = *req.AmountBudgeted
	}

	if err := h.svc.Update(r.Context(), c); err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
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
