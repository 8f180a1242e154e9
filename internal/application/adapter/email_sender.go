// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing emails.
type EmailService interface {
	// QueueDiscrepancyAlertEmail queues a balance discrepancy alert.
	QueueDiscrepancyAlertEmail(ctx context.Context, input QueueDiscrepancyAlertInput) error

	// QueueSyncReportEmail queues a sync report summary.
	QueueSyncReportEmail(ctx context.Context, input QueueSyncReportInput) error
}

// QueueDiscrepancyAlertInput represents the input for queueing a discrepancy alert.
type QueueDiscrepancyAlertInput struct {
	AccountName   string
	Currency      string
	LedgerBalance string
	BankBalance   string
	Difference    string
	DetectedAt    string
}

// SyncReportLine summarises one synced link for the report email.
type SyncReportLine struct {
	AccountName string
	Fetched     int
	Confirmed   int
	Linked      int
	Created     int
	Conflicts   int
	Pending     int
	InSync      bool
}

// QueueSyncReportInput represents the input for queueing a sync report.
type QueueSyncReportInput struct {
	RanAt     string
	Lines     []SyncReportLine
	HasIssues bool
}
