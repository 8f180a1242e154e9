// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/ledgerfeed/backend/internal/application/usecase/payeerule"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// CreatePayeeRuleRequest represents the request body for payee rule creation.
type CreatePayeeRuleRequest struct {
	Pattern     string `json:"pattern" binding:"required,min=1,max=255"`
	AccountID   string `json:"account_id" binding:"required,uuid"`
	Description string `json:"description,omitempty" binding:"omitempty,max=255"`
	Priority    *int   `json:"priority,omitempty"`
}

// UpdatePayeeRuleRequest represents the request body for payee rule update.
type UpdatePayeeRuleRequest struct {
	Pattern     *string `json:"pattern,omitempty" binding:"omitempty,min=1,max=255"`
	AccountID   *string `json:"account_id,omitempty" binding:"omitempty,uuid"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
	Priority    *int    `json:"priority,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ReorderPayeeRulesRequest represents the request body for reordering rules.
type ReorderPayeeRulesRequest struct {
	Order []RulePriorityItem `json:"order" binding:"required,min=1,dive"`
}

// RulePriorityItem represents a single rule priority update.
type RulePriorityItem struct {
	ID       string `json:"id" binding:"required,uuid"`
	Priority int    `json:"priority" binding:"required"`
}

// TestPatternRequest represents the request body for pattern testing.
type TestPatternRequest struct {
	Pattern string `json:"pattern" binding:"required,min=1,max=255"`
	Limit   int    `json:"limit,omitempty" binding:"omitempty,min=1,max=100"`
}

// PayeeRuleResponse represents a single payee rule in API responses.
type PayeeRuleResponse struct {
	ID          string    `json:"id"`
	Pattern     string    `json:"pattern"`
	AccountID   string    `json:"account_id"`
	AccountName string    `json:"account_name,omitempty"`
	Description string    `json:"description,omitempty"`
	Priority    int       `json:"priority"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PayeeRuleListResponse represents the response for listing payee rules.
type PayeeRuleListResponse struct {
	Rules []PayeeRuleResponse `json:"rules"`
}

// MatchingSplitResponse represents a matching split in pattern test responses.
type MatchingSplitResponse struct {
	ID           string `json:"id"`
	Counterparty string `json:"counterparty"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
}

// TestPatternResponse represents the response for pattern testing.
type TestPatternResponse struct {
	MatchingSplits []MatchingSplitResponse `json:"matching_splits"`
	MatchCount     int                     `json:"match_count"`
}

// ToPayeeRuleResponse converts a domain PayeeRuleWithAccount to a PayeeRuleResponse DTO.
func ToPayeeRuleResponse(rwa *entity.PayeeRuleWithAccount) PayeeRuleResponse {
	response := PayeeRuleResponse{
		ID:          rwa.Rule.ID.String(),
		Pattern:     rwa.Rule.Pattern,
		AccountID:   rwa.Rule.AccountID.String(),
		Description: rwa.Rule.Description,
		Priority:    rwa.Rule.Priority,
		IsActive:    rwa.Rule.IsActive,
		CreatedAt:   rwa.Rule.CreatedAt,
		UpdatedAt:   rwa.Rule.UpdatedAt,
	}

	if rwa.Account != nil {
		response.AccountName = rwa.Account.FullName
	}

	return response
}

// ToPayeeRuleListResponse converts a list of rules to a PayeeRuleListResponse.
func ToPayeeRuleListResponse(rules []*entity.PayeeRuleWithAccount) PayeeRuleListResponse {
	responses := make([]PayeeRuleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, ToPayeeRuleResponse(rule))
	}

	return PayeeRuleListResponse{Rules: responses}
}

// ToTestPatternResponse converts pattern test output to a TestPatternResponse.
func ToTestPatternResponse(output *payeerule.TestPatternOutput) TestPatternResponse {
	splits := make([]MatchingSplitResponse, 0, len(output.MatchingSplits))
	for _, split := range output.MatchingSplits {
		splits = append(splits, MatchingSplitResponse{
			ID:           split.ID.String(),
			Counterparty: split.Counterparty,
			Description:  split.Description,
			Amount:       split.Amount,
			Date:         split.Date.Format("2006-01-02"),
		})
	}

	return TestPatternResponse{
		MatchingSplits: splits,
		MatchCount:     output.MatchCount,
	}
}
