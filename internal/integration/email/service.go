// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// Service handles email queueing operations. All alerts go to the configured
// owner address.
type Service struct {
	queue      adapter.EmailQueueRepository
	ownerEmail string
	ownerName  string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, ownerEmail, ownerName string) *Service {
	return &Service{
		queue:      queue,
		ownerEmail: ownerEmail,
		ownerName:  ownerName,
	}
}

// QueueDiscrepancyAlertEmail queues a balance discrepancy alert.
func (s *Service) QueueDiscrepancyAlertEmail(ctx context.Context, input adapter.QueueDiscrepancyAlertInput) error {
	subject := fmt.Sprintf("Balance discrepancy on %s - Ledger Feed", input.AccountName)

	templateData := map[string]interface{}{
		"account_name":   input.AccountName,
		"currency":       input.Currency,
		"ledger_balance": input.LedgerBalance,
		"bank_balance":   input.BankBalance,
		"difference":     input.Difference,
		"detected_at":    input.DetectedAt,
	}

	job := entity.NewEmailJob(
		entity.TemplateDiscrepancyAlert,
		s.ownerEmail,
		s.ownerName,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue discrepancy alert email",
			err,
		)
	}

	return nil
}

// QueueSyncReportEmail queues a sync report summary.
func (s *Service) QueueSyncReportEmail(ctx context.Context, input adapter.QueueSyncReportInput) error {
	subject := "Bank sync report - Ledger Feed"
	if input.HasIssues {
		subject = "Bank sync report: attention needed - Ledger Feed"
	}

	lines := make([]map[string]interface{}, len(input.Lines))
	for i, line := range input.Lines {
		lines[i] = map[string]interface{}{
			"account_name": line.AccountName,
			"fetched":      line.Fetched,
			"confirmed":    line.Confirmed,
			"linked":       line.Linked,
			"created":      line.Created,
			"conflicts":    line.Conflicts,
			"pending":      line.Pending,
			"in_sync":      line.InSync,
		}
	}

	templateData := map[string]interface{}{
		"ran_at":     input.RanAt,
		"lines":      lines,
		"has_issues": input.HasIssues,
	}

	job := entity.NewEmailJob(
		entity.TemplateSyncReport,
		s.ownerEmail,
		s.ownerName,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue sync report email",
			err,
		)
	}

	return nil
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
