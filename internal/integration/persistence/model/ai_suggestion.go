// Package model defines database models for persistence layer.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// SuggestedAccountNewJSON represents the JSONB structure for new account suggestions.
type SuggestedAccountNewJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Value implements the driver.Valuer interface.
func (s SuggestedAccountNewJSON) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface.
func (s *SuggestedAccountNewJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, s)
}

// AccountSuggestionModel represents the account_suggestions table in the database.
type AccountSuggestionModel struct {
	ID                     uuid.UUID                `gorm:"type:uuid;primaryKey"`
	TransactionID          uuid.UUID                `gorm:"type:uuid;not null;index"`
	SuggestedAccountID     *uuid.UUID               `gorm:"type:uuid;index"`
	SuggestedAccountNew    *SuggestedAccountNewJSON `gorm:"type:jsonb"`
	MatchType              string                   `gorm:"type:varchar(20);not null"`
	MatchKeyword           string                   `gorm:"type:varchar(255);not null"`
	AffectedTransactionIDs pq.StringArray           `gorm:"type:uuid[]"`
	Confidence             float64                  `gorm:"type:decimal(5,4);not null;default:0"`
	Reasoning              string                   `gorm:"type:text"`
	Status                 string                   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PreviousSuggestion     *string                  `gorm:"type:jsonb"`
	RetryReason            *string                  `gorm:"type:text"`
	CreatedAt              time.Time                `gorm:"not null"`
	UpdatedAt              time.Time                `gorm:"not null"`
	DeletedAt              gorm.DeletedAt           `gorm:"index"`

	// Relationships (not loaded by default, use Preload)
	Transaction *LedgerTransactionModel `gorm:"foreignKey:TransactionID;references:ID"`
	Account     *AccountModel           `gorm:"foreignKey:SuggestedAccountID;references:ID"`
}

// TableName returns the table name for the AccountSuggestionModel.
func (AccountSuggestionModel) TableName() string {
	return "account_suggestions"
}

// ToEntity converts an AccountSuggestionModel to a domain AccountSuggestion entity.
func (m *AccountSuggestionModel) ToEntity() *entity.AccountSuggestion {
	suggestion := &entity.AccountSuggestion{
		ID:                 m.ID,
		TransactionID:      m.TransactionID,
		SuggestedAccountID: m.SuggestedAccountID,
		MatchType:          entity.MatchType(m.MatchType),
		MatchKeyword:       m.MatchKeyword,
		Confidence:         m.Confidence,
		Reasoning:          m.Reasoning,
		Status:             entity.SuggestionStatus(m.Status),
		PreviousSuggestion: m.PreviousSuggestion,
		RetryReason:        m.RetryReason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}

	// Convert suggested account new
	if m.SuggestedAccountNew != nil {
		suggestion.SuggestedAccountNew = &entity.SuggestedAccountNew{
			Name: m.SuggestedAccountNew.Name,
			Type: m.SuggestedAccountNew.Type,
		}
	}

	// Convert affected transaction IDs
	suggestion.AffectedTransactionIDs = make([]uuid.UUID, 0, len(m.AffectedTransactionIDs))
	for _, idStr := range m.AffectedTransactionIDs {
		if id, err := uuid.Parse(idStr); err == nil {
			suggestion.AffectedTransactionIDs = append(suggestion.AffectedTransactionIDs, id)
		}
	}

	return suggestion
}

// ToEntityWithDetails converts an AccountSuggestionModel with relationships to a domain entity with details.
func (m *AccountSuggestionModel) ToEntityWithDetails() *entity.AccountSuggestionWithDetails {
	result := &entity.AccountSuggestionWithDetails{
		Suggestion:               m.ToEntity(),
		AffectedTransactionCount: len(m.AffectedTransactionIDs),
	}

	if m.Transaction != nil {
		result.Transaction = m.Transaction.ToEntity()
	}

	if m.Account != nil {
		result.Account = m.Account.ToEntity()
	}

	return result
}

// ToEntityWithDetailsAndTransactions converts the model with the affected
// transactions resolved from a prefetched map.
func (m *AccountSuggestionModel) ToEntityWithDetailsAndTransactions(transactionMap map[uuid.UUID]*LedgerTransactionModel) *entity.AccountSuggestionWithDetails {
	result := m.ToEntityWithDetails()

	for _, idStr := range m.AffectedTransactionIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		if tm, ok := transactionMap[id]; ok {
			result.AffectedTransactions = append(result.AffectedTransactions, tm.ToEntity())
		}
	}

	return result
}

// AccountSuggestionFromEntity creates an AccountSuggestionModel from a domain entity.
func AccountSuggestionFromEntity(suggestion *entity.AccountSuggestion) *AccountSuggestionModel {
	model := &AccountSuggestionModel{
		ID:                 suggestion.ID,
		TransactionID:      suggestion.TransactionID,
		SuggestedAccountID: suggestion.SuggestedAccountID,
		MatchType:          string(suggestion.MatchType),
		MatchKeyword:       suggestion.MatchKeyword,
		Confidence:         suggestion.Confidence,
		Reasoning:          suggestion.Reasoning,
		Status:             string(suggestion.Status),
		PreviousSuggestion: suggestion.PreviousSuggestion,
		RetryReason:        suggestion.RetryReason,
		CreatedAt:          suggestion.CreatedAt,
		UpdatedAt:          suggestion.UpdatedAt,
	}

	// Convert suggested account new
	if suggestion.SuggestedAccountNew != nil {
		model.SuggestedAccountNew = &SuggestedAccountNewJSON{
			Name: suggestion.SuggestedAccountNew.Name,
			Type: suggestion.SuggestedAccountNew.Type,
		}
	}

	// Convert affected transaction IDs
	model.AffectedTransactionIDs = make(pq.StringArray, len(suggestion.AffectedTransactionIDs))
	for i, id := range suggestion.AffectedTransactionIDs {
		model.AffectedTransactionIDs[i] = id.String()
	}

	return model
}
