package smartlog

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/budgie-app/budgie/internal/receipt"
)

// fakeGenerator replays a scripted sequence of model responses and records
// the contents of every request.
type fakeGenerator struct {
	responses []*genai.GenerateContentResponse
	err       error
	requests  [][]*genai.Content
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.requests = append(f.requests, contents)

	if f.err != nil {
		return nil, f.err
	}

	idx := len(f.requests) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}

	return f.responses[idx], nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func callResponse(calls ...*genai.FunctionCall) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, len(calls))
	for i, fc := range calls {
		parts[i] = &genai.Part{FunctionCall: fc}
	}

	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: parts}},
		},
	}
}

func submitCall(entries ...map[string]any) *genai.FunctionCall {
	items := make([]any, len(entries))
	for i, e := range entries {
		items[i] = e
	}

	return &genai.FunctionCall{
		Name: toolSuggest,
		Args: map[string]any{"transactions": items},
	}
}

func entry(title string, amount float64, date, confidence string) map[string]any {
	return map[string]any{
		"title":            title,
		"amount":           amount,
		"category_id":      "b2f8d9a0-0000-0000-0000-000000000001",
		"category_name":    "Groceries",
		"transaction_date": date,
		"confidence":       confidence,
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer

	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.NoError(t, err)

	return buf.Bytes()
}

func TestAnalyze_NoCredential(t *testing.T) {
	o := NewOrchestrator(nil, "gemini-3-flash-preview")

	_, err := o.Analyze(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestAnalyze_NoFunctionCalls(t *testing.T) {
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		textResponse("I could not find any transactions."),
	}}
	o := NewOrchestrator(gen, "test-model")

	suggestions, err := o.Analyze(context.Background(), Input{})
	require.NoError(t, err)
	assert.Empty(t, suggestions)
	assert.Len(t, gen.requests, 1)
}

func TestAnalyze_SubmitFirstCall(t *testing.T) {
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		callResponse(submitCall(
			entry("Tesco", 42.50, "2026-08-12", "high"),
			entry("Shell", 60.00, "2026-08-13", "low"),
		)),
	}}
	o := NewOrchestrator(gen, "test-model")

	suggestions, err := o.Analyze(context.Background(), Input{})
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	// The submission is terminal: no follow-up request is sent.
	assert.Len(t, gen.requests, 1)

	assert.NotEqual(t, suggestions[0].ID, suggestions[1].ID)
	assert.True(t, strings.HasPrefix(suggestions[0].ID, "suggestion-0-"))
	assert.True(t, strings.HasPrefix(suggestions[1].ID, "suggestion-1-"))

	for _, s := range suggestions {
		assert.Equal(t, StatusPending, s.Status)
	}

	assert.Equal(t, "Tesco", suggestions[0].Title)
	assert.Equal(t, ConfidenceHigh, suggestions[0].Confidence)
	assert.Equal(t, ConfidenceLow, suggestions[1].Confidence)
}

func TestAnalyze_UnknownConfidenceDefaultsToMedium(t *testing.T) {
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		callResponse(submitCall(entry("Tesco", 42.50, "2026-08-12", "unknown"))),
	}}
	o := NewOrchestrator(gen, "test-model")

	suggestions, err := o.Analyze(context.Background(), Input{})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, ConfidenceMedium, suggestions[0].Confidence)
}

func TestAnalyze_EndToEnd(t *testing.T) {
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		callResponse(&genai.FunctionCall{Name: toolGetCategories}),
		callResponse(&genai.FunctionCall{Name: toolGetTransactions}),
		callResponse(submitCall(entry("Lidl", 23.10, "2026-08-14", "high"))),
	}}
	o := NewOrchestrator(gen, "test-model")

	img, err := receipt.Normalize(testPNG(t))
	require.NoError(t, err)

	in := Input{
		Images: []receipt.Image{img},
		Categories: []CategoryContext{
			{ID: "c1", Title: "Groceries", Budgeted: 400},
			{ID: "c2", Title: "Transport", Budgeted: 100},
			{ID: "c3", Title: "Eating Out", Budgeted: 150},
		},
	}

	suggestions, err := o.Analyze(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, StatusPending, suggestions[0].Status)
	assert.Equal(t, "Lidl", suggestions[0].Title)

	// One request per loop iteration: fetch, fetch, submit.
	require.Len(t, gen.requests, 3)

	// Each follow-up request grows the conversation by the model turn and
	// the synthesized function responses.
	assert.Len(t, gen.requests[0], 1)
	assert.Len(t, gen.requests[1], 3)
	assert.Len(t, gen.requests[2], 5)

	followUp := gen.requests[1][2]
	require.Len(t, followUp.Parts, 1)
	require.NotNil(t, followUp.Parts[0].FunctionResponse)
	assert.Equal(t, toolGetCategories, followUp.Parts[0].FunctionResponse.Name)
}

func TestAnalyze_TransportError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection reset")}
	o := NewOrchestrator(gen, "test-model")

	_, err := o.Analyze(context.Background(), Input{})
	assert.Error(t, err)
}

func TestAnalyze_IterationCapExhausted(t *testing.T) {
	// The model keeps asking for categories and never submits.
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		callResponse(&genai.FunctionCall{Name: toolGetCategories}),
	}}
	o := NewOrchestrator(gen, "test-model")

	suggestions, err := o.Analyze(context.Background(), Input{})
	require.NoError(t, err)
	assert.Empty(t, suggestions)
	assert.Len(t, gen.requests, maxToolIterations)
}

func TestAnalyze_UnknownToolAnswered(t *testing.T) {
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		callResponse(&genai.FunctionCall{Name: "made_up_tool"}),
		textResponse("giving up"),
	}}
	o := NewOrchestrator(gen, "test-model")

	suggestions, err := o.Analyze(context.Background(), Input{})
	require.NoError(t, err)
	assert.Empty(t, suggestions)
	require.Len(t, gen.requests, 2)

	followUp := gen.requests[1][2]
	require.NotNil(t, followUp.Parts[0].FunctionResponse)
	assert.Equal(t, "Unknown function", followUp.Parts[0].FunctionResponse.Response["error"])
}

func TestAnalyze_DuplicateSuggestionDropped(t *testing.T) {
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		callResponse(submitCall(
			entry("Tesco", 42.50, "2026-08-12", "high"),
			entry("Shell", 60.00, "2026-08-13", "high"),
		)),
	}}
	o := NewOrchestrator(gen, "test-model")

	in := Input{
		Transactions: []TransactionContext{
			{ID: "t1", Title: "Tesco Superstore", Amount: 42.50, Date: "2026-08-12"},
		},
	}

	suggestions, err := o.Analyze(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Shell", suggestions[0].Title)
}
