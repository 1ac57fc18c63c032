package smartlog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/genai"

	"github.com/budgie-app/budgie/internal/receipt"
)

// maxToolIterations caps the request/response loop with the model. Hitting
// the cap without a terminal submission is not an error; whatever was
// accumulated (usually nothing) is returned.
const maxToolIterations = 10

// ErrNoCredential is returned before any request is attempted when no model
// credential is configured.
var ErrNoCredential = errors.New("gemini api key not configured")

// Generator is the slice of the Gemini client the orchestrator uses.
// *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiGenerator builds a Generator backed by the hosted Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return client.Models, nil
}

// Orchestrator runs the receipt-extraction conversation with the model.
type Orchestrator struct {
	gen   Generator
	model string
}

// NewOrchestrator wires an orchestrator to a model backend. A nil generator
// is allowed; Analyze then fails with ErrNoCredential before any request.
func NewOrchestrator(gen Generator, model string) *Orchestrator {
	return &Orchestrator{gen: gen, model: model}
}

// Input carries everything one extraction needs: the normalized images plus
// the month's category and transaction context the fetch tools answer from.
type Input struct {
	Images       []receipt.Image
	Categories   []CategoryContext
	Transactions []TransactionContext
}

// Analyze sends the receipt images to the model and drives the tool-call
// loop until the model submits suggestions, stops calling tools, or the
// iteration cap is reached. Any transport error aborts the whole extraction;
// no partial suggestions are delivered.
func (o *Orchestrator) Analyze(ctx context.Context, in Input) ([]Suggestion, error) {
	if o.gen == nil {
		return nil, ErrNoCredential
	}

	contents := []*genai.Content{initialContent(in.Images)}
	config := &genai.GenerateContentConfig{Tools: suggestionTools()}

	var suggestions []Suggestion

	submitted := false

	for iter := 0; iter < maxToolIterations && !submitted; iter++ {
		resp, err := o.gen.GenerateContent(ctx, o.model, contents, config)
		if err != nil {
			return nil, fmt.Errorf("generate content: %w", err)
		}

		modelContent, calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}

		responses := make([]*genai.Part, 0, len(calls))

		for _, fc := range calls {
			var payload map[string]any

			call, err := parseToolCall(fc)

			switch {
			case errors.Is(err, errUnknownTool):
				payload = map[string]any{"error": "Unknown function"}

			case err != nil:
				return nil, fmt.Errorf("dispatching tool call: %w", err)

			case call.fetchCategories:
				payload = map[string]any{"categories": in.Categories}

			case call.fetchTransactions:
				payload = map[string]any{"transactions": in.Transactions}

			case call.suggest != nil:
				suggestions = toSuggestions(call.suggest.Transactions)
				submitted = true
				payload = map[string]any{"success": true, "message": "Suggestions recorded"}
			}

			responses = append(responses, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       fc.ID,
					Name:     fc.Name,
					Response: payload,
				},
			})
		}

		// The submission call is terminal; its synthesized response is
		// never sent back.
		if submitted {
			break
		}

		contents = append(contents,
			modelContent,
			&genai.Content{Role: "user", Parts: responses},
		)
	}

	return dropDuplicates(suggestions, in.Transactions), nil
}

// initialContent builds the single opening message: system instruction,
// inline image blobs, closing user instruction.
func initialContent(images []receipt.Image) *genai.Content {
	parts := make([]*genai.Part, 0, len(images)+2)
	parts = append(parts, &genai.Part{Text: systemPrompt})

	for _, img := range images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: img.MIMEType,
				Data:     img.Data,
			},
		})
	}

	parts = append(parts, &genai.Part{Text: closingPrompt})

	return &genai.Content{Role: "user", Parts: parts}
}

// functionCalls extracts the model's content and its function-call parts
// from a response.
func functionCalls(resp *genai.GenerateContentResponse) (*genai.Content, []*genai.FunctionCall) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return &genai.Content{Role: "model"}, nil
	}

	content := resp.Candidates[0].Content

	var calls []*genai.FunctionCall

	for _, part := range content.Parts {
		if part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}

	return content, calls
}

func toSuggestions(payloads []suggestedPayload) []Suggestion {
	now := time.Now().UnixMilli()
	suggestions := make([]Suggestion, len(payloads))

	for i, p := range payloads {
		suggestions[i] = Suggestion{
			ID:           fmt.Sprintf("suggestion-%d-%d", i, now),
			Title:        p.Title,
			Amount:       p.Amount,
			CategoryID:   p.CategoryID,
			CategoryName: p.CategoryName,
			Date:         p.Date,
			Description:  p.Description,
			Confidence:   parseConfidence(p.Confidence),
			Status:       StatusPending,
		}
	}

	return suggestions
}

// dropDuplicates removes suggestions matching an existing transaction on
// date and amount. The prompt already asks the model not to suggest
// duplicates; this filter does not trust it.
func dropDuplicates(suggestions []Suggestion, existing []TransactionContext) []Suggestion {
	if len(suggestions) == 0 || len(existing) == 0 {
		return suggestions
	}

	kept := suggestions[:0]

	for _, s := range suggestions {
		if !isDuplicate(s, existing) {
			kept = append(kept, s)
		}
	}

	return kept
}

func isDuplicate(s Suggestion, existing []TransactionContext) bool {
	for _, tx := range existing {
		if tx.Date == s.Date && math.Abs(tx.Amount-s.Amount) < 0.005 {
			return true
		}
	}

	return false
}
