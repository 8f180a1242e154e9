// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// GeminiService implements the AISuggestionService using Google Gemini.
type GeminiService struct {
	apiKey    string
	modelName string
	client    *genai.Client
}

// NewGeminiService creates a new Gemini service instance.
func NewGeminiService(apiKey, modelName string) *GeminiService {
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}
	return &GeminiService{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the Gemini service is available and properly configured.
func (s *GeminiService) IsAvailable() bool {
	return s.apiKey != ""
}

// Suggest analyzes imbalance transactions and returns offset suggestions.
func (s *GeminiService) Suggest(ctx context.Context, request *adapter.AISuggestionRequest) ([]*adapter.AISuggestionResult, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}

	// Create client
	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	// Get the model
	model := client.GenerativeModel(s.modelName)

	// Configure model for JSON output
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"

	// Build the prompt
	prompt := s.buildPrompt(request)

	// Generate response
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	// Parse response
	results, err := s.parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return results, nil
}

// buildPrompt creates the prompt for Gemini.
func (s *GeminiService) buildPrompt(request *adapter.AISuggestionRequest) string {
	var sb strings.Builder

	sb.WriteString(`You are an expert in double-entry bookkeeping. The transactions below were imported from a bank feed, and nobody could tell which account they should balance against, so they currently post to a fallback account. Your task is to suggest the proper offsetting account for each one.

For each transaction you must:
1. Identify a keyword pattern that matches similar counterparty or description texts
2. Suggest an existing account from the chart of accounts, or propose a new one
3. Pick the match type: "exact", "startsWith", or "contains"

IMPORTANT RULES:
- Prefer existing accounts when they fit well
- New accounts need a name and a type; valid types are: asset, liability, income, expense, equity
- Account names use colons for hierarchy, e.g. "Expenses:Groceries" or "Income:Salary"
- Money flowing out of a bank account usually offsets an expense account; money flowing in usually offsets an income account
- The keyword should be specific enough to avoid false positives, but general enough to capture similar transactions
- Use "contains" for partial matches, "startsWith" for prefixes, "exact" for full matches
- Group similar transactions under the same pattern

CHART OF ACCOUNTS:
`)

	if len(request.ExistingAccounts) > 0 {
		for _, account := range request.ExistingAccounts {
			sb.WriteString(fmt.Sprintf("- ID: %s, Name: %s, Type: %s\n",
				account.ID, account.FullName, account.Type))
		}
	} else {
		sb.WriteString("(no existing accounts)\n")
	}

	sb.WriteString("\nTRANSACTIONS TO RESOLVE:\n")
	for _, transaction := range request.Transactions {
		sb.WriteString(fmt.Sprintf("- ID: %s, Description: \"%s\", Counterparty: \"%s\", Amount: %s, Date: %s\n",
			transaction.ID, transaction.Description, transaction.Counterparty, transaction.Amount, transaction.Date))
	}

	sb.WriteString(`

Answer with a JSON array of suggestions. Each suggestion must have:
{
  "transaction_id": "uuid of the main transaction",
  "suggested_account_id": "uuid of an existing account or null",
  "suggested_account_new": { "name": "Colon:Separated:Name", "type": "asset|liability|income|expense|equity" } or null,
  "match_type": "contains" | "startsWith" | "exact",
  "match_keyword": "keyword/pattern for matching",
  "affected_transaction_ids": ["uuids of other transactions that match the pattern"],
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation"
}

Group similar transactions. When several transactions match the same pattern, include one suggestion listing all affected IDs.

RESPONSE FORMAT: Return only the JSON array, no additional text.
`)

	return sb.String()
}

// geminiSuggestion represents the raw response from Gemini.
type geminiSuggestion struct {
	TransactionID          string            `json:"transaction_id"`
	SuggestedAccountID     *string           `json:"suggested_account_id"`
	SuggestedAccountNew    *geminiNewAccount `json:"suggested_account_new"`
	MatchType              string            `json:"match_type"`
	MatchKeyword           string            `json:"match_keyword"`
	AffectedTransactionIDs []string          `json:"affected_transaction_ids"`
	Confidence             float64           `json:"confidence"`
	Reasoning              string            `json:"reasoning"`
}

type geminiNewAccount struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// parseResponse parses the Gemini response into AISuggestionResults.
func (s *GeminiService) parseResponse(resp *genai.GenerateContentResponse) ([]*adapter.AISuggestionResult, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	// Get the text content from the response
	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}

	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Clean the response (remove markdown code blocks if present)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	// Parse JSON
	var suggestions []geminiSuggestion
	if err := json.Unmarshal([]byte(textContent), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, textContent)
	}

	// Convert to results
	results := make([]*adapter.AISuggestionResult, 0, len(suggestions))
	for _, suggestion := range suggestions {
		result := &adapter.AISuggestionResult{
			MatchType:    entity.MatchType(suggestion.MatchType),
			MatchKeyword: suggestion.MatchKeyword,
			Confidence:   suggestion.Confidence,
			Reasoning:    suggestion.Reasoning,
		}

		// Parse transaction ID
		transactionID, err := uuid.Parse(suggestion.TransactionID)
		if err != nil {
			continue // Skip invalid IDs
		}
		result.TransactionID = transactionID

		// Parse suggested account ID or new account
		if suggestion.SuggestedAccountID != nil && *suggestion.SuggestedAccountID != "" {
			accountID, err := uuid.Parse(*suggestion.SuggestedAccountID)
			if err == nil {
				result.SuggestedAccountID = &accountID
			}
		} else if suggestion.SuggestedAccountNew != nil {
			accountType := suggestion.SuggestedAccountNew.Type
			if !entity.IsValidAccountType(accountType) {
				accountType = string(entity.AccountTypeExpense)
			}
			result.SuggestedAccountNew = &entity.SuggestedAccountNew{
				Name: suggestion.SuggestedAccountNew.Name,
				Type: accountType,
			}
		}

		// Parse affected transaction IDs
		result.AffectedTransactionIDs = make([]uuid.UUID, 0, len(suggestion.AffectedTransactionIDs))
		for _, idStr := range suggestion.AffectedTransactionIDs {
			if id, err := uuid.Parse(idStr); err == nil {
				result.AffectedTransactionIDs = append(result.AffectedTransactionIDs, id)
			}
		}

		// Validate match type
		switch result.MatchType {
		case entity.MatchTypeContains, entity.MatchTypeStartsWith, entity.MatchTypeExact:
			// Valid
		default:
			result.MatchType = entity.MatchTypeContains
		}

		results = append(results, result)
	}

	return results, nil
}
