package smartlog

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgie-app/budgie/internal/category"
	"github.com/budgie-app/budgie/internal/smartlog"
	"github.com/budgie-app/budgie/internal/transaction"
)

type fakeAnalyzer struct {
	suggestions []smartlog.Suggestion
	err         error
	inputs      []smartlog.Input
}

func (f *fakeAnalyzer) Analyze(_ context.Context, in smartlog.Input) ([]smartlog.Suggestion, error) {
	f.inputs = append(f.inputs, in)
	return f.suggestions, f.err
}

type fakeDirectory struct {
	categories []*category.Category
	err        error
}

func (f *fakeDirectory) ListByBudget(context.Context, uuid.UUID) ([]*category.Category, error) {
	return f.categories, f.err
}

type fakeLog struct {
	transactions []*transaction.Transaction
	listErr      error
	batches      [][]transaction.CreateParams
	createErr    error
}

func (f *fakeLog) ListByBudget(context.Context, uuid.UUID) ([]*transaction.Transaction, error) {
	return f.transactions, f.listErr
}

func (f *fakeLog) CreateBatch(_ context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	f.batches = append(f.batches, params)

	if f.createErr != nil {
		return nil, f.createErr
	}

	return make([]*transaction.Transaction, len(params)), nil
}

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/smart-logging", h.Routes)

	return r
}

func dataURLImage(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer

	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestAnalyze_NoImages(t *testing.T) {
	h := NewHandler(&fakeAnalyzer{}, &fakeDirectory{}, &fakeLog{})
	router := newTestRouter(h)

	rec := postJSON(t, router, "/api/smart-logging", map[string]any{
		"images":            []string{},
		"monthly_budget_id": uuid.NewString(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No images provided"}`, rec.Body.String())
}

func TestAnalyze_MissingBudgetID(t *testing.T) {
	h := NewHandler(&fakeAnalyzer{}, &fakeDirectory{}, &fakeLog{})
	router := newTestRouter(h)

	rec := postJSON(t, router, "/api/smart-logging", map[string]any{
		"images": []string{dataURLImage(t)},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Monthly budget ID is required"}`, rec.Body.String())
}

func TestAnalyze_NoCredential(t *testing.T) {
	h := NewHandler(&fakeAnalyzer{err: smartlog.ErrNoCredential}, &fakeDirectory{}, &fakeLog{})
	router := newTestRouter(h)

	rec := postJSON(t, router, "/api/smart-logging", map[string]any{
		"images":            []string{dataURLImage(t)},
		"monthly_budget_id": uuid.NewString(),
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Gemini API key not configured"}`, rec.Body.String())
}

func TestAnalyze_ModelFailure(t *testing.T) {
	h := NewHandler(&fakeAnalyzer{err: errors.New("boom")}, &fakeDirectory{}, &fakeLog{})
	router := newTestRouter(h)

	rec := postJSON(t, router, "/api/smart-logging", map[string]any{
		"images":            []string{dataURLImage(t)},
		"monthly_budget_id": uuid.NewString(),
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to analyze images"}`, rec.Body.String())
}

func TestAnalyze_Success(t *testing.T) {
	categoryID := uuid.New()
	analyzer := &fakeAnalyzer{suggestions: []smartlog.Suggestion{
		{
			ID:           "suggestion-0-1",
			Title:        "Tesco",
			Amount:       42.50,
			CategoryID:   categoryID.String(),
			CategoryName: "Groceries",
			Date:         "2026-08-12",
			Confidence:   smartlog.ConfidenceHigh,
			Status:       smartlog.StatusPending,
		},
	}}
	directory := &fakeDirectory{categories: []*category.Category{
		{ID: categoryID, Title: "Groceries", AmountBudgeted: 400},
	}}

	h := NewHandler(analyzer, directory, &fakeLog{})
	router := newTestRouter(h)

	rec := postJSON(t, router, "/api/smart-logging", map[string]any{
		"images":            []string{dataURLImage(t)},
		"monthly_budget_id": uuid.NewString(),
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp analyzeResponse

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "Tesco", resp.Suggestions[0].Title)
	assert.Equal(t, smartlog.StatusPending, resp.Suggestions[0].Status)

	// The category context handed to the model mirrors the budget.
	require.Len(t, analyzer.inputs, 1)
	require.Len(t, analyzer.inputs[0].Categories, 1)
	assert.Equal(t, "Groceries", analyzer.inputs[0].Categories[0].Title)
	require.Len(t, analyzer.inputs[0].Images, 1)
}

func TestAnalyze_EmptySuggestionsEncodesAsArray(t *testing.T) {
	h := NewHandler(&fakeAnalyzer{}, &fakeDirectory{}, &fakeLog{})
	router := newTestRouter(h)

	rec := postJSON(t, router, "/api/smart-logging", map[string]any{
		"images":            []string{dataURLImage(t)},
		"monthly_budget_id": uuid.NewString(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, rec.Body.String())
}

func TestAnalyze_BadImageData(t *testing.T) {
	h := NewHandler(&fakeAnalyzer{}, &fakeDirectory{}, &fakeLog{})
	router := newTestRouter(h)

	rec := postJSON(t, router, "/api/smart-logging", map[string]any{
		"images":            []string{"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image"))},
		"monthly_budget_id": uuid.NewString(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Invalid image data"))
}

func TestSubmit_NoTransactions(t *testing.T) {
	h := NewHandler(&fakeAnalyzer{}, &fakeDirectory{}, &fakeLog{})
	router := newTestRouter(h)

	rec := postJSON(t, router, "/api/smart-logging/submit", map[string]any{
		"transactions": []any{},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No transactions provided"}`, rec.Body.String())
}

func TestSubmit_Success(t *testing.T) {
	log := &fakeLog{}
	h := NewHandler(&fakeAnalyzer{}, &fakeDirectory{}, log)
	router := newTestRouter(h)

	categoryID := uuid.New()

	rec := postJSON(t, router, "/api/smart-logging/submit", map[string]any{
		"transactions": []map[string]any{
			{
				"title":            "Tesco",
				"amount":           42.50,
				"category_id":      categoryID.String(),
				"transaction_date": "2026-08-12",
			},
			{
				"title":            "Shell",
				"amount":           60.00,
				"category_id":      categoryID.String(),
				"transaction_date": "2026-08-13",
				"description":      "fuel",
			},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	// One batched create carrying both entries.
	require.Len(t, log.batches, 1)
	require.Len(t, log.batches[0], 2)
	assert.Equal(t, categoryID, log.batches[0][0].CategoryID)
	assert.Equal(t, "fuel", log.batches[0][1].Description)
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	log := &fakeLog{createErr: errors.New("connection refused")}
	h := NewHandler(&fakeAnalyzer{}, &fakeDirectory{}, log)
	router := newTestRouter(h)

	rec := postJSON(t, router, "/api/smart-logging/submit", map[string]any{
		"transactions": []map[string]any{
			{
				"title":            "Tesco",
				"amount":           42.50,
				"category_id":      uuid.NewString(),
				"transaction_date": "2026-08-12",
			},
		},
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to create transactions"}`, rec.Body.String())
}
