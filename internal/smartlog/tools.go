package smartlog

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// errUnknownTool marks a function call whose name is none of the three
// declared capabilities. The loop answers it with an error payload instead
// of aborting.
var errUnknownTool = errors.New("unknown function")

// The three capabilities declared to the model. The first two answer from
// data already held locally; the third is terminal and carries the final
// suggestion list.
const (
	toolGetCategories   = "get_categories_for_month"
	toolGetTransactions = "get_transactions_for_month"
	toolSuggest         = "suggest_transactions"
)

const systemPrompt = `You are a helpful assistant that analyzes receipt images and extracts transaction information.

Your task:
1. First, call get_categories_for_month to see what budget categories are available
2. Then, call get_transactions_for_month to see existing transactions and avoid duplicates
3. Analyze the receipt images to extract transaction details
4. Match each transaction to the most appropriate category
5. Finally, call suggest_transactions with your suggestions

Guidelines:
- Extract the store/merchant name as the title
- Use the total amount from the receipt
- Parse the date from the receipt, or use today's date if not visible
- Choose the most appropriate category based on the merchant type and items purchased
- Set confidence to "high" if the receipt is clear and category match is obvious, "medium" if somewhat uncertain, "low" if guessing
- Do NOT suggest transactions that already exist (check amounts and dates for duplicates)`

const closingPrompt = "Please analyze these receipt images and suggest transactions to log."

func suggestionTools() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        toolGetCategories,
					Description: "Get the list of budget categories for the current month. Use this to understand what categories are available for categorizing transactions.",
				},
				{
					Name:        toolGetTransactions,
					Description: "Get the list of existing transactions for the current month. Use this to avoid suggesting duplicate transactions.",
				},
				{
					Name:        toolSuggest,
					Description: "Submit the final list of suggested transactions extracted from the receipt images. Call this after analyzing the images and determining the appropriate categories.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"transactions": {
								Type:        genai.TypeArray,
								Description: "List of suggested transactions",
								Items: &genai.Schema{
									Type: genai.TypeObject,
									Properties: map[string]*genai.Schema{
										"title": {
											Type:        genai.TypeString,
											Description: "Title/description of the transaction (e.g., store name or item)",
										},
										"amount": {
											Type:        genai.TypeNumber,
											Description: "Transaction amount as a positive number",
										},
										"category_id": {
											Type:        genai.TypeString,
											Description: "ID of the category this transaction belongs to (use the exact id string from the categories list)",
										},
										"category_name": {
											Type:        genai.TypeString,
											Description: "Name of the category for display purposes",
										},
										"transaction_date": {
											Type:        genai.TypeString,
											Description: "Date of the transaction in YYYY-MM-DD format",
										},
										"description": {
											Type:        genai.TypeString,
											Description: "Optional additional details about the transaction",
										},
										"confidence": {
											Type:        genai.TypeString,
											Description: "Confidence level of the suggestion: high, medium, or low",
										},
									},
									Required: []string{"title", "amount", "category_id", "category_name", "transaction_date", "confidence"},
								},
							},
						},
						Required: []string{"transactions"},
					},
				},
			},
		},
	}
}

type suggestedPayload struct {
	Title        string  `json:"title"`
	Amount       float64 `json:"amount"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Date         string  `json:"transaction_date"`
	Description  string  `json:"description"`
	Confidence   string  `json:"confidence"`
}

type suggestArgs struct {
	Transactions []suggestedPayload `json:"transactions"`
}

// toolCall is the typed view of one model function call. Exactly one of the
// variants is set.
type toolCall struct {
	fetchCategories   bool
	fetchTransactions bool
	suggest           *suggestArgs
}

func parseToolCall(fc *genai.FunctionCall) (toolCall, error) {
	switch fc.Name {
	case toolGetCategories:
		return toolCall{fetchCategories: true}, nil

	case toolGetTransactions:
		return toolCall{fetchTransactions: true}, nil

	case toolSuggest:
		raw, err := json.Marshal(fc.Args)
		if err != nil {
			return toolCall{}, fmt.Errorf("marshaling %s args: %w", fc.Name, err)
		}

		var args suggestArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return toolCall{}, fmt.Errorf("parsing %s args: %w", fc.Name, err)
		}

		return toolCall{suggest: &args}, nil

	default:
		return toolCall{}, fmt.Errorf("%w: %q", errUnknownTool, fc.Name)
	}
}
