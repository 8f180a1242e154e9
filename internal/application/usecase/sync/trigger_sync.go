// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/domain/valueobject"
)

// DefaultLockTTL bounds how long a crashed sync can keep a link locked.
const DefaultLockTTL = 10 * time.Minute

// TriggerSyncInput represents the input for triggering a sync.
type TriggerSyncInput struct {
	// AccountLinkID restricts the run to one link. Nil syncs every
	// sync-enabled link.
	AccountLinkID *uuid.UUID
}

// TriggerSyncOutput represents the output of triggering a sync.
type TriggerSyncOutput struct {
	JobID   string `json:"job_id"`
	Links   int    `json:"links"`
	Message string `json:"message"`
}

// TriggerSyncUseCase handles starting an asynchronous sync over account links.
type TriggerSyncUseCase struct {
	importer    *feedImporter
	linkRepo    adapter.AccountLinkRepository
	accountRepo adapter.AccountRepository
	locker      adapter.SyncLocker
	tracker     RunTracker
	lockTTL     time.Duration
}

// NewTriggerSyncUseCase creates a new TriggerSyncUseCase instance.
func NewTriggerSyncUseCase(
	runRepo adapter.SyncRunRepository,
	linkRepo adapter.AccountLinkRepository,
	accountRepo adapter.AccountRepository,
	transactionRepo adapter.LedgerTransactionRepository,
	discrepancyRepo adapter.DiscrepancyRepository,
	ruleRepo adapter.PayeeRuleRepository,
	feedClient adapter.BankFeedClient,
	tokenManager adapter.FeedTokenManager,
	emailService adapter.EmailService,
	locker adapter.SyncLocker,
	tracker RunTracker,
	config valueobject.MatchingConfig,
	lockTTL time.Duration,
) *TriggerSyncUseCase {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &TriggerSyncUseCase{
		importer: &feedImporter{
			runRepo:         runRepo,
			linkRepo:        linkRepo,
			accountRepo:     accountRepo,
			transactionRepo: transactionRepo,
			discrepancyRepo: discrepancyRepo,
			feedClient:      feedClient,
			tokenManager:    tokenManager,
			emailService:    emailService,
			resolver: &offsetResolver{
				transactionRepo: transactionRepo,
				accountRepo:     accountRepo,
				ruleRepo:        ruleRepo,
			},
			config: config,
		},
		linkRepo:    linkRepo,
		accountRepo: accountRepo,
		locker:      locker,
		tracker:     tracker,
		lockTTL:     lockTTL,
	}
}

// Execute starts the sync and returns as soon as the job is accepted.
func (uc *TriggerSyncUseCase) Execute(ctx context.Context, input TriggerSyncInput) (*TriggerSyncOutput, error) {
	links, err := uc.resolveLinks(ctx, input)
	if err != nil {
		return nil, err
	}

	if uc.tracker != nil && uc.tracker.IsRunning() {
		return nil, domainerror.NewSyncError(
			domainerror.ErrCodeSyncAlreadyRunning,
			"A sync job is already in progress",
			domainerror.ErrSyncAlreadyRunning,
		)
	}

	jobID := uuid.New().String()
	if uc.tracker != nil {
		uc.tracker.ClearError()
		uc.tracker.Begin(jobID)
	}

	// The job outlives the request; status is served by the tracker.
	go uc.runAsync(context.Background(), jobID, links)

	return &TriggerSyncOutput{
		JobID:   jobID,
		Links:   len(links),
		Message: fmt.Sprintf("Sync started for %d account link(s)", len(links)),
	}, nil
}

// resolveLinks picks the links the run will cover. An explicitly requested
// link syncs even when its scheduled syncing is disabled.
func (uc *TriggerSyncUseCase) resolveLinks(ctx context.Context, input TriggerSyncInput) ([]*entity.AccountLink, error) {
	if input.AccountLinkID != nil {
		link, err := uc.linkRepo.FindByID(ctx, *input.AccountLinkID)
		if err != nil {
			if errors.Is(err, domainerror.ErrAccountLinkNotFound) {
				return nil, domainerror.NewLinkError(
					domainerror.ErrCodeAccountLinkNotFound,
					"Account link not found",
					err,
				)
			}
			return nil, fmt.Errorf("failed to get account link: %w", err)
		}
		return []*entity.AccountLink{link}, nil
	}

	links, err := uc.linkRepo.FindSyncEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync-enabled links: %w", err)
	}
	if len(links) == 0 {
		return nil, domainerror.NewSyncError(
			domainerror.ErrCodeNothingToSync,
			"No sync-enabled account links found",
			domainerror.ErrNothingToSync,
		)
	}
	return links, nil
}

// runAsync walks the links, one run each, and queues the report email.
func (uc *TriggerSyncUseCase) runAsync(ctx context.Context, jobID string, links []*entity.AccountLink) {
	logger := slog.Default().With("job_id", jobID, "operation", "sync")
	defer func() {
		if uc.tracker != nil {
			uc.tracker.Finish()
		}
	}()

	logger.Info("Sync started", "links", len(links))

	lines := make([]adapter.SyncReportLine, 0, len(links))
	failures := 0
	for _, link := range links {
		line, err := uc.syncLink(ctx, logger, link)
		if err != nil {
			failures++
			logger.Error("Link sync failed", "link_id", link.ID, "error", err)
		}
		if line != nil {
			lines = append(lines, *line)
		}
	}

	if failures > 0 && uc.tracker != nil {
		uc.tracker.SetError(fmt.Sprintf("%d of %d link(s) failed to sync", failures, len(links)))
	}
	uc.queueReport(ctx, logger, lines, failures)

	logger.Info("Sync finished", "links", len(links), "failures", failures)
}

// syncLink imports one link under its lock and summarises the run for the
// report email.
func (uc *TriggerSyncUseCase) syncLink(ctx context.Context, logger *slog.Logger, link *entity.AccountLink) (*adapter.SyncReportLine, error) {
	lockKey := syncLockKey(link.ID)
	acquired, err := uc.locker.Acquire(ctx, lockKey, uc.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !acquired {
		return nil, domainerror.NewSyncError(
			domainerror.ErrCodeSyncAlreadyRunning,
			"Another sync holds the lock for this link",
			domainerror.ErrSyncAlreadyRunning,
		)
	}
	defer func() {
		if releaseErr := uc.locker.Release(ctx, lockKey); releaseErr != nil {
			logger.Warn("Failed to release sync lock", "link_id", link.ID, "error", releaseErr)
		}
	}()

	run, err := uc.importer.importLink(ctx, logger, link)
	if err != nil {
		return nil, err
	}

	name := link.Alias
	if name == "" {
		if account, accErr := uc.accountRepo.FindByID(ctx, link.LedgerAccountID); accErr == nil {
			name = account.FullName
		} else {
			name = link.BankAccountID
		}
	}
	return &adapter.SyncReportLine{
		AccountName: name,
		Fetched:     run.Fetched,
		Confirmed:   run.Confirmed,
		Linked:      run.Linked,
		Created:     run.Created,
		Conflicts:   run.Conflicts,
		Pending:     run.Pending,
		InSync:      run.BalanceInSync,
	}, nil
}

// queueReport queues the sync report email when a sender is configured.
func (uc *TriggerSyncUseCase) queueReport(ctx context.Context, logger *slog.Logger, lines []adapter.SyncReportLine, failures int) {
	if uc.importer.emailService == nil || (len(lines) == 0 && failures == 0) {
		return
	}

	hasIssues := failures > 0
	for _, line := range lines {
		if line.Conflicts > 0 || !line.InSync {
			hasIssues = true
		}
	}

	err := uc.importer.emailService.QueueSyncReportEmail(ctx, adapter.QueueSyncReportInput{
		RanAt:     time.Now().UTC().Format(time.RFC1123),
		Lines:     lines,
		HasIssues: hasIssues,
	})
	if err != nil {
		logger.Warn("Failed to queue sync report", "error", err)
	}
}

// syncLockKey is the lock key for one link's sync.
func syncLockKey(linkID uuid.UUID) string {
	return "sync:link:" + linkID.String()
}
