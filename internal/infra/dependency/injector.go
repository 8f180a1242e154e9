// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ledgerfeed/backend/config"
	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/application/usecase/discrepancy"
	"github.com/ledgerfeed/backend/internal/application/usecase/ledger"
	"github.com/ledgerfeed/backend/internal/application/usecase/linking"
	"github.com/ledgerfeed/backend/internal/application/usecase/payeerule"
	"github.com/ledgerfeed/backend/internal/application/usecase/reconciliation"
	"github.com/ledgerfeed/backend/internal/application/usecase/report"
	"github.com/ledgerfeed/backend/internal/application/usecase/suggestion"
	"github.com/ledgerfeed/backend/internal/application/usecase/sync"
	"github.com/ledgerfeed/backend/internal/domain/valueobject"
	"github.com/ledgerfeed/backend/internal/infra/server/router"
	"github.com/ledgerfeed/backend/internal/integration/adapters"
	"github.com/ledgerfeed/backend/internal/integration/email"
	"github.com/ledgerfeed/backend/internal/integration/email/templates"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/controller"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/middleware"
	"github.com/ledgerfeed/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Router      *router.Router
	SyncWorker  *sync.Worker
	EmailWorker *email.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
// The redis client may be nil, in which case the institution cache and the
// sync lock fall back to in-process implementations.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Injector, error) {
	// Create repositories
	accountRepo := persistence.NewAccountRepository(db)
	transactionRepo := persistence.NewLedgerTransactionRepository(db)
	requisitionRepo := persistence.NewRequisitionRepository(db)
	linkRepo := persistence.NewAccountLinkRepository(db)
	feedTokenRepo := persistence.NewFeedTokenRepository(db)
	runRepo := persistence.NewSyncRunRepository(db)
	discrepancyRepo := persistence.NewDiscrepancyRepository(db)
	reconciliationRepo := persistence.NewReconciliationRepository(db)
	ruleRepo := persistence.NewPayeeRuleRepository(db)
	suggestionRepo := persistence.NewAISuggestionRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)
	reportRepo := persistence.NewReportRepository(db)

	// Create adapters/services
	sealKey := cfg.Encryption.TokenSealKeyHex
	if sealKey == "" {
		slog.Warn("TOKEN_SEAL_KEY not set, using an ephemeral seal key; provider tokens will be re-minted on restart")
		sealKey = adapters.GenerateSealKey()
	}
	sealer, err := adapters.NewSecretSealer(sealKey)
	if err != nil {
		return nil, err
	}

	feedClient := adapters.NewBankDataClient(
		cfg.BankFeed.BaseURL,
		cfg.BankFeed.SecretID,
		cfg.BankFeed.SecretKey,
		cfg.BankFeed.RequestTimeout,
	)
	tokenManager := adapters.NewFeedTokenManager(feedClient, feedTokenRepo, sealer)

	var feedCache adapter.FeedCache
	var syncLocker adapter.SyncLocker
	if redisClient != nil {
		feedCache = adapters.NewRedisFeedCache(redisClient)
		syncLocker = adapters.NewRedisSyncLocker(redisClient)
	} else {
		feedCache = adapters.NewMemoryFeedCache()
		syncLocker = adapters.NewMemorySyncLocker()
	}

	aiService := adapters.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.Model)

	// Create the email pipeline. Without a Resend key the worker logs sends
	// instead of delivering them.
	var emailSender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		emailSender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	} else {
		slog.Warn("RESEND_API_KEY not set, outgoing email is disabled")
		emailSender = email.NewMockEmailSender()
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}
	emailService := email.NewService(emailQueueRepo, cfg.Email.OwnerEmail, cfg.Email.OwnerName)
	var emailWorker *email.Worker
	if cfg.Email.WorkerEnabled {
		emailWorker = email.NewWorker(emailQueueRepo, emailSender, renderer, email.WorkerConfig{
			PollInterval: cfg.Email.PollInterval,
			BatchSize:    cfg.Email.BatchSize,
		})
	}

	matchingConfig := valueobject.NewMatchingConfig(
		cfg.Matching.AmountToleranceAbs,
		cfg.Matching.AmountTolerancePct,
		cfg.Matching.DateToleranceDays,
	)
	syncTracker := sync.NewInMemoryRunTracker()
	suggestionTracker := suggestion.NewInMemoryRunTracker()

	// Create ledger use cases
	listAccountsUseCase := ledger.NewListAccountsUseCase(accountRepo)
	createAccountUseCase := ledger.NewCreateAccountUseCase(accountRepo)
	updateAccountUseCase := ledger.NewUpdateAccountUseCase(accountRepo)
	deleteAccountUseCase := ledger.NewDeleteAccountUseCase(accountRepo)
	listTransactionsUseCase := ledger.NewListTransactionsUseCase(transactionRepo)
	getTransactionUseCase := ledger.NewGetTransactionUseCase(transactionRepo)
	createTransactionUseCase := ledger.NewCreateTransactionUseCase(transactionRepo, accountRepo)
	updateTransactionUseCase := ledger.NewUpdateTransactionUseCase(transactionRepo, accountRepo)
	deleteTransactionUseCase := ledger.NewDeleteTransactionUseCase(transactionRepo)

	// Create linking use cases
	listInstitutionsUseCase := linking.NewListInstitutionsUseCase(feedClient, tokenManager, feedCache, cfg.BankFeed.InstitutionCacheTTL)
	createRequisitionUseCase := linking.NewCreateRequisitionUseCase(requisitionRepo, feedClient, tokenManager, cfg.BankFeed.RedirectURL)
	listRequisitionsUseCase := linking.NewListRequisitionsUseCase(requisitionRepo)
	getRequisitionUseCase := linking.NewGetRequisitionUseCase(requisitionRepo, linkRepo, feedClient, tokenManager)
	deleteRequisitionUseCase := linking.NewDeleteRequisitionUseCase(requisitionRepo, feedClient, tokenManager)
	createLinkUseCase := linking.NewCreateLinkUseCase(linkRepo, accountRepo, requisitionRepo)
	listLinksUseCase := linking.NewListLinksUseCase(linkRepo)
	updateLinkUseCase := linking.NewUpdateLinkUseCase(linkRepo)
	deleteLinkUseCase := linking.NewDeleteLinkUseCase(linkRepo)

	// Create sync use cases
	triggerSyncUseCase := sync.NewTriggerSyncUseCase(
		runRepo,
		linkRepo,
		accountRepo,
		transactionRepo,
		discrepancyRepo,
		ruleRepo,
		feedClient,
		tokenManager,
		emailService,
		syncLocker,
		syncTracker,
		matchingConfig,
		cfg.Sync.LockTTL,
	)
	previewSyncUseCase := sync.NewPreviewSyncUseCase(
		linkRepo,
		accountRepo,
		transactionRepo,
		ruleRepo,
		feedClient,
		tokenManager,
		matchingConfig,
	)
	getSyncStatusUseCase := sync.NewGetStatusUseCase(runRepo, syncTracker)
	listRunsUseCase := sync.NewListRunsUseCase(runRepo, linkRepo)
	getRunUseCase := sync.NewGetRunUseCase(runRepo, linkRepo)

	// Create reconciliation use cases
	getPendingUseCase := reconciliation.NewGetPendingUseCase(reconciliationRepo)
	getLinkedUseCase := reconciliation.NewGetLinkedUseCase(reconciliationRepo)
	getSummaryUseCase := reconciliation.NewGetSummaryUseCase(linkRepo, reconciliationRepo)
	manualLinkUseCase := reconciliation.NewManualLinkUseCase(transactionRepo)
	unlinkUseCase := reconciliation.NewUnlinkUseCase(transactionRepo)
	getCandidatesUseCase := reconciliation.NewGetCandidatesUseCase(transactionRepo, reconciliationRepo)

	// Create discrepancy use cases
	listDiscrepanciesUseCase := discrepancy.NewListDiscrepanciesUseCase(discrepancyRepo)
	resolveDiscrepancyUseCase := discrepancy.NewResolveDiscrepancyUseCase(discrepancyRepo)
	ignoreDiscrepancyUseCase := discrepancy.NewIgnoreDiscrepancyUseCase(discrepancyRepo)

	// Create payee rule use cases
	listPayeeRulesUseCase := payeerule.NewListPayeeRulesUseCase(ruleRepo)
	createPayeeRuleUseCase := payeerule.NewCreatePayeeRuleUseCase(ruleRepo, accountRepo)
	updatePayeeRuleUseCase := payeerule.NewUpdatePayeeRuleUseCase(ruleRepo, accountRepo)
	deletePayeeRuleUseCase := payeerule.NewDeletePayeeRuleUseCase(ruleRepo)
	reorderPayeeRulesUseCase := payeerule.NewReorderPayeeRulesUseCase(ruleRepo)
	testPatternUseCase := payeerule.NewTestPatternUseCase(transactionRepo)

	// Create suggestion use cases
	startSuggestionsUseCase := suggestion.NewStartSuggestionsUseCase(
		transactionRepo,
		accountRepo,
		suggestionRepo,
		aiService,
		suggestionTracker,
	)
	getSuggestionStatusUseCase := suggestion.NewGetStatusUseCase(transactionRepo, suggestionRepo, suggestionTracker)
	listSuggestionsUseCase := suggestion.NewListSuggestionsUseCase(suggestionRepo)
	approveSuggestionUseCase := suggestion.NewApproveSuggestionUseCase(suggestionRepo, accountRepo, transactionRepo, ruleRepo)
	rejectSuggestionUseCase := suggestion.NewRejectSuggestionUseCase(suggestionRepo, transactionRepo, accountRepo, aiService)
	clearSuggestionsUseCase := suggestion.NewClearSuggestionsUseCase(suggestionRepo)

	// Create report use cases
	getActivityUseCase := report.NewGetActivityUseCase(reportRepo, transactionRepo)

	// Create controllers
	healthController := controller.NewHealthController(
		func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		},
		redisHealthChecker(redisClient),
	)

	accountController := controller.NewAccountController(
		listAccountsUseCase,
		createAccountUseCase,
		updateAccountUseCase,
		deleteAccountUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		getTransactionUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
	)

	linkingController := controller.NewLinkingController(
		listInstitutionsUseCase,
		createRequisitionUseCase,
		listRequisitionsUseCase,
		getRequisitionUseCase,
		deleteRequisitionUseCase,
		createLinkUseCase,
		listLinksUseCase,
		updateLinkUseCase,
		deleteLinkUseCase,
	)

	syncController := controller.NewSyncController(
		triggerSyncUseCase,
		previewSyncUseCase,
		getSyncStatusUseCase,
		listRunsUseCase,
		getRunUseCase,
	)

	reconciliationController := controller.NewReconciliationController(
		getPendingUseCase,
		getLinkedUseCase,
		getSummaryUseCase,
		manualLinkUseCase,
		unlinkUseCase,
		getCandidatesUseCase,
	)

	discrepancyController := controller.NewDiscrepancyController(
		listDiscrepanciesUseCase,
		resolveDiscrepancyUseCase,
		ignoreDiscrepancyUseCase,
	)

	payeeRuleController := controller.NewPayeeRuleController(
		listPayeeRulesUseCase,
		createPayeeRuleUseCase,
		updatePayeeRuleUseCase,
		deletePayeeRuleUseCase,
		reorderPayeeRulesUseCase,
		testPatternUseCase,
	)

	suggestionController := controller.NewSuggestionController(
		startSuggestionsUseCase,
		getSuggestionStatusUseCase,
		listSuggestionsUseCase,
		approveSuggestionUseCase,
		rejectSuggestionUseCase,
		clearSuggestionsUseCase,
	)

	reportController := controller.NewReportController(getActivityUseCase)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var syncRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		syncRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		syncRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.APIKey)

	// Create background workers. They are wired here but started by the
	// caller; a nil worker means that worker is disabled.
	var syncWorker *sync.Worker
	if cfg.Sync.WorkerEnabled {
		syncWorker = sync.NewWorker(triggerSyncUseCase, cfg.Sync.Interval)
	}

	// Create router
	r := router.NewRouter(
		healthController,
		accountController,
		transactionController,
		linkingController,
		syncController,
		reconciliationController,
		discrepancyController,
		payeeRuleController,
		suggestionController,
		reportController,
		syncRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Router:      r,
		SyncWorker:  syncWorker,
		EmailWorker: emailWorker,
	}, nil
}

// redisHealthChecker builds the health probe for the optional redis client.
// A nil client yields a nil checker, which the health endpoint reports as
// redis not being configured.
func redisHealthChecker(client *redis.Client) func() bool {
	if client == nil {
		return nil
	}
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err() == nil
	}
}
