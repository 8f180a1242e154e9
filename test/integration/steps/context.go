// Package steps contains the step definitions backing the feature suite.
// The suite boots the real dependency graph once per test binary: in-memory
// sqlite stands in for postgres, miniredis for redis, and an httptest server
// for the bank data provider. Scenarios talk to the application over plain
// HTTP, the same way a real client would.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/config"
	"github.com/ledgerfeed/backend/internal/infra/dependency"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/middleware"
	"github.com/ledgerfeed/backend/internal/integration/persistence/model"
	"github.com/ledgerfeed/backend/test/integration/mock"
)

const testAPIKey = "test-api-key"

var (
	serverOnce  sync.Once
	serverPort  int
	testDB      *mock.Db
	apiMock     *mock.ApiMock
	redisClient *redis.Client
)

// startServer boots the application exactly as cmd/api does, swapping only
// the infrastructure edges: the database, redis and the provider base URL.
func startServer() {
	gin.SetMode(gin.TestMode)
	os.Setenv("ENV", "test")

	apiMock = mock.NewApiServer()
	apiMock.Start()

	testDB = mock.NewDb(map[string]any{
		"accounts":            &model.AccountModel{},
		"transactions":        &model.LedgerTransactionModel{},
		"splits":              &model.SplitModel{},
		"requisitions":        &model.RequisitionModel{},
		"account_links":       &model.AccountLinkModel{},
		"feed_tokens":         &model.FeedTokenModel{},
		"sync_runs":           &model.SyncRunModel{},
		"discrepancies":       &model.DiscrepancyModel{},
		"payee_rules":         &model.PayeeRuleModel{},
		"account_suggestions": &model.AccountSuggestionModel{},
		"email_queue":         &model.EmailQueueModel{},
	})
	redisClient = mock.NewRedis()

	serverPort = findAvailablePort()
	cfg := testConfig()

	injector, err := dependency.NewInjector(cfg, testDB.DbConn, redisClient)
	if err != nil {
		panic(fmt.Sprintf("failed to wire test dependencies: %v", err))
	}

	engine := injector.Router.Setup(cfg.Server.Environment)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("test server stopped: %v", err))
		}
	}()

	waitForServer()
}

// testConfig mirrors the production defaults where they matter and disables
// the background workers so scenarios control every sync and email run.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         serverPort,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			Environment:  "test",
		},
		BankFeed: config.BankFeedConfig{
			BaseURL:             apiMock.GetUrl() + "/api/v2/",
			SecretID:            "test-secret-id",
			SecretKey:           "test-secret-key",
			RedirectURL:         "http://localhost/callback",
			InstitutionCacheTTL: time.Hour,
			RequestTimeout:      10 * time.Second,
		},
		Matching: config.MatchingConfig{
			DateToleranceDays: 5,
		},
		Sync: config.SyncConfig{
			WorkerEnabled: false,
			Interval:      time.Hour,
			LockTTL:       time.Minute,
		},
		Email: config.EmailConfig{
			FromName:      "Ledger Feed",
			FromEmail:     "noreply@example.com",
			OwnerEmail:    "owner@example.com",
			OwnerName:     "Owner",
			WorkerEnabled: false,
			PollInterval:  time.Second,
			BatchSize:     10,
		},
		AI: config.AIConfig{
			Model: "gemini-2.5-flash-lite",
		},
		Auth: config.AuthConfig{
			APIKey: testAPIKey,
		},
		Encryption: config.EncryptionConfig{
			TokenSealKeyHex: strings.Repeat("42", 32),
		},
	}
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(fmt.Sprintf("failed to find an available port: %v", err))
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func waitForServer() {
	url := fmt.Sprintf("http://127.0.0.1:%d/health", serverPort)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	panic("test server did not become ready")
}

type apiResponse struct {
	status int
	raw    []byte
	body   any
}

type testContext struct {
	client   *http.Client
	headers  map[string]string
	captured map[string]string
	response *apiResponse
}

func newTestContext() *testContext {
	return &testContext{client: &http.Client{Timeout: 15 * time.Second}}
}

func (t *testContext) reset() error {
	t.headers = map[string]string{middleware.APIKeyHeader: testAPIKey}
	t.captured = map[string]string{}
	t.response = nil

	if err := testDB.ClearDB(); err != nil {
		return err
	}
	if err := mock.ClearRedis(redisClient); err != nil {
		return err
	}
	apiMock.Reset()

	// Scenarios start with no stored provider tokens, so the first provider
	// call always mints a fresh pair.
	apiMock.SetResponse(-1, "POST", "/api/v2/token/new/", http.StatusOK, map[string]any{
		"access":          "test-access-token",
		"access_expires":  86400,
		"refresh":         "test-refresh-token",
		"refresh_expires": 2592000,
	})
	return nil
}

// InitializeTestSuite registers suite-level hooks.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario boots the shared server and registers every step.
func InitializeScenario(ctx *godog.ScenarioContext) {
	serverOnce.Do(startServer)

	tc := newTestContext()

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	registerRequestSteps(ctx, tc)
	registerResponseSteps(ctx, tc)
	registerDatabaseSteps(ctx, tc)
	registerSeedingSteps(ctx, tc)
	registerProviderSteps(ctx, tc)
}

// ---------------------------------------------------------------------------
// Request steps
// ---------------------------------------------------------------------------

func registerRequestSteps(ctx *godog.ScenarioContext, tc *testContext) {
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, tc.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, tc.iSendARequestToWithBody)
	ctx.Step(`^I set the "([^"]*)" header to "([^"]*)"$`, tc.iSetTheHeaderTo)
	ctx.Step(`^the request carries no API key$`, tc.theRequestCarriesNoAPIKey)
	ctx.Step(`^I wait for the sync to finish$`, tc.iWaitForTheSyncToFinish)
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.doRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	return t.doRequest(method, path, []byte(t.replacePlaceholders(body.Content)))
}

func (t *testContext) iSetTheHeaderTo(name, value string) error {
	t.headers[name] = t.replacePlaceholders(value)
	return nil
}

func (t *testContext) theRequestCarriesNoAPIKey() error {
	delete(t.headers, middleware.APIKeyHeader)
	return nil
}

func (t *testContext) doRequest(method, path string, payload []byte) error {
	url := fmt.Sprintf("http://127.0.0.1:%d%s", serverPort, t.replacePlaceholders(path))

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range t.headers {
		req.Header.Set(name, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	t.response = &apiResponse{status: resp.StatusCode, raw: raw}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &t.response.body)
	}
	return nil
}

// iWaitForTheSyncToFinish polls the sync status endpoint until the running
// flag clears. Trigger marks the job running before it answers 202, so the
// first poll never races the goroutine.
func (t *testContext) iWaitForTheSyncToFinish() error {
	url := fmt.Sprintf("http://127.0.0.1:%d/api/v1/sync/status", serverPort)
	deadline := time.Now().Add(10 * time.Second)

	for time.Now().Before(deadline) {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set(middleware.APIKeyHeader, testAPIKey)

		resp, err := t.client.Do(req)
		if err != nil {
			return fmt.Errorf("sync status poll failed: %w", err)
		}
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		var status struct {
			Running bool `json:"running"`
		}
		if resp.StatusCode == http.StatusOK && json.Unmarshal(raw, &status) == nil && !status.Running {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("sync did not finish within 10s")
}

// ---------------------------------------------------------------------------
// Response steps
// ---------------------------------------------------------------------------

func registerResponseSteps(ctx *godog.ScenarioContext, tc *testContext) {
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, tc.theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should not exist$`, tc.theResponseFieldShouldNotExist)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items?$`, tc.theResponseFieldShouldHaveItems)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^I capture the response field "([^"]*)" as "([^"]*)"$`, tc.iCaptureTheResponseFieldAs)
}

func (t *testContext) theResponseStatusShouldBe(expected int) error {
	if t.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if t.response.status != expected {
		return fmt.Errorf("expected status %d, got %d (body: %s)", expected, t.response.status, t.response.raw)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expected string) error {
	value, ok := t.fieldValue(field)
	if !ok {
		return fmt.Errorf("field %q not found in response: %s", field, t.response.raw)
	}

	got := formatValue(value)
	want := t.replacePlaceholders(expected)
	if got != want {
		return fmt.Errorf("expected field %q to be %q, got %q", field, want, got)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if _, ok := t.fieldValue(field); !ok {
		return fmt.Errorf("field %q not found in response: %s", field, t.response.raw)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldNotExist(field string) error {
	if value, ok := t.fieldValue(field); ok && value != nil {
		return fmt.Errorf("expected field %q to be absent, got %v", field, value)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, count int) error {
	value, ok := t.fieldValue(field)
	if !ok {
		return fmt.Errorf("field %q not found in response: %s", field, t.response.raw)
	}

	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field %q is not an array: %v", field, value)
	}
	if len(items) != count {
		return fmt.Errorf("expected %d items in %q, got %d (body: %s)", count, field, len(items), t.response.raw)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(substring string) error {
	if t.response == nil {
		return fmt.Errorf("no response recorded")
	}
	want := t.replacePlaceholders(substring)
	if !strings.Contains(string(t.response.raw), want) {
		return fmt.Errorf("response does not contain %q: %s", want, t.response.raw)
	}
	return nil
}

func (t *testContext) iCaptureTheResponseFieldAs(field, name string) error {
	value, ok := t.fieldValue(field)
	if !ok {
		return fmt.Errorf("field %q not found in response: %s", field, t.response.raw)
	}
	t.captured[name] = formatValue(value)
	return nil
}

func (t *testContext) fieldValue(path string) (any, bool) {
	if t.response == nil {
		return nil, false
	}
	return getFieldValue(t.response.body, t.replacePlaceholders(path))
}

// getFieldValue walks a dot path through decoded JSON. Numeric segments index
// into arrays, so "accounts.0.name" reads the first account's name.
func getFieldValue(data any, path string) (any, bool) {
	current := data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	return current, true
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (t *testContext) replacePlaceholders(value string) string {
	for name, replacement := range t.captured {
		value = strings.ReplaceAll(value, "{{"+name+"}}", replacement)
	}
	return value
}

// ---------------------------------------------------------------------------
// Database steps
// ---------------------------------------------------------------------------

func registerDatabaseSteps(ctx *godog.ScenarioContext, tc *testContext) {
	ctx.Step(`^the "([^"]*)" table should have (\d+) rows?$`, tc.theTableShouldHaveRows)
	ctx.Step(`^the "([^"]*)" table should have (\d+) rows? matching:$`, tc.theTableShouldHaveRowsMatching)
}

func (t *testContext) theTableShouldHaveRows(table string, expected int) error {
	return t.countRows(table, expected, nil)
}

func (t *testContext) theTableShouldHaveRowsMatching(table string, expected int, criteria *godog.DocString) error {
	var conditions map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(criteria.Content)), &conditions); err != nil {
		return fmt.Errorf("invalid criteria JSON: %w", err)
	}
	return t.countRows(table, expected, conditions)
}

// countRows counts through the model so soft-deleted rows stay invisible,
// matching what the API itself reports.
func (t *testContext) countRows(table string, expected int, conditions map[string]any) error {
	entry, ok := testDB.GetModel(table)
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}

	query := testDB.DbConn.Model(entry)
	if len(conditions) > 0 {
		query = query.Where(conditions)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d rows in %s (criteria %v), found %d", expected, table, conditions, count)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Seeding steps
// ---------------------------------------------------------------------------

func registerSeedingSteps(ctx *godog.ScenarioContext, tc *testContext) {
	ctx.Step(`^these ledger accounts exist:$`, tc.theseLedgerAccountsExist)
	ctx.Step(`^these transactions exist:$`, tc.theseTransactionsExist)
	ctx.Step(`^these splits exist:$`, tc.theseSplitsExist)
	ctx.Step(`^these account links exist:$`, tc.theseAccountLinksExist)
	ctx.Step(`^these requisitions exist:$`, tc.theseRequisitionsExist)
	ctx.Step(`^these payee rules exist:$`, tc.thesePayeeRulesExist)
	ctx.Step(`^these discrepancies exist:$`, tc.theseDiscrepanciesExist)
	ctx.Step(`^these sync runs exist:$`, tc.theseSyncRunsExist)
	ctx.Step(`^these account suggestions exist:$`, tc.theseAccountSuggestionsExist)
}

func tableRows(table *godog.Table) ([]map[string]string, error) {
	if len(table.Rows) < 2 {
		return nil, fmt.Errorf("table needs a header row and at least one data row")
	}

	header := table.Rows[0]
	rows := make([]map[string]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		if len(row.Cells) != len(header.Cells) {
			return nil, fmt.Errorf("row has %d cells, header has %d", len(row.Cells), len(header.Cells))
		}
		values := map[string]string{}
		for i, cell := range header.Cells {
			values[cell.Value] = strings.TrimSpace(row.Cells[i].Value)
		}
		rows = append(rows, values)
	}
	return rows, nil
}

func parseUUID(value, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", label, value, err)
	}
	return id, nil
}

// parseDate accepts a fixed "2006-01-02" date or a "today" token with an
// optional day offset ("today-3"). Report scenarios use the token so their
// seeded activity always falls inside the rolling report window.
func parseDate(value, label string) (time.Time, error) {
	if strings.HasPrefix(value, "today") {
		now := time.Now().UTC()
		date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if offset := strings.TrimPrefix(value, "today"); offset != "" {
			days, err := strconv.Atoi(offset)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid %s %q: %w", label, value, err)
			}
			date = date.AddDate(0, 0, days)
		}
		return date, nil
	}

	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", label, value, err)
	}
	return date, nil
}

func (t *testContext) theseLedgerAccountsExist(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := parseUUID(row["id"], "account id")
		if err != nil {
			return err
		}

		currency := row["currency"]
		if currency == "" {
			currency = "EUR"
		}

		now := time.Now().UTC()
		account := &model.AccountModel{
			ID:        id,
			Name:      row["name"],
			FullName:  row["name"],
			Type:      row["type"],
			Currency:  currency,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if parent := row["parent_id"]; parent != "" {
			parentID, err := parseUUID(parent, "parent id")
			if err != nil {
				return err
			}

			var parentRow model.AccountModel
			if err := testDB.DbConn.First(&parentRow, "id = ?", parentID).Error; err != nil {
				return fmt.Errorf("parent account %s must be seeded first: %w", parent, err)
			}
			account.ParentID = &parentID
			account.FullName = parentRow.FullName + ":" + account.Name
		}

		if err := testDB.DbConn.Create(account).Error; err != nil {
			return fmt.Errorf("failed to seed account %q: %w", row["name"], err)
		}
	}
	return nil
}

func (t *testContext) theseTransactionsExist(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := parseUUID(row["id"], "transaction id")
		if err != nil {
			return err
		}
		date, err := parseDate(row["date"], "transaction date")
		if err != nil {
			return err
		}

		currency := row["currency"]
		if currency == "" {
			currency = "EUR"
		}

		now := time.Now().UTC()
		transaction := &model.LedgerTransactionModel{
			ID:          id,
			Date:        date,
			Description: row["description"],
			Currency:    currency,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := testDB.DbConn.Create(transaction).Error; err != nil {
			return fmt.Errorf("failed to seed transaction %s: %w", row["id"], err)
		}
	}
	return nil
}

func (t *testContext) theseSplitsExist(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := parseUUID(row["id"], "split id")
		if err != nil {
			return err
		}
		transactionID, err := parseUUID(row["transaction_id"], "split transaction id")
		if err != nil {
			return err
		}
		accountID, err := parseUUID(row["account_id"], "split account id")
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(row["amount"])
		if err != nil {
			return fmt.Errorf("invalid split amount %q: %w", row["amount"], err)
		}

		state := row["reconcile_state"]
		if state == "" {
			state = "n"
		}

		now := time.Now().UTC()
		split := &model.SplitModel{
			ID:             id,
			TransactionID:  transactionID,
			AccountID:      accountID,
			Amount:         amount,
			Memo:           row["memo"],
			ReconcileState: state,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if v := row["external_id"]; v != "" {
			split.ExternalID = &v
		}
		if v := row["counterparty"]; v != "" {
			split.Counterparty = &v
		}

		if err := testDB.DbConn.Create(split).Error; err != nil {
			return fmt.Errorf("failed to seed split %s: %w", row["id"], err)
		}
	}
	return nil
}

func (t *testContext) theseAccountLinksExist(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := parseUUID(row["id"], "link id")
		if err != nil {
			return err
		}
		ledgerAccountID, err := parseUUID(row["ledger_account_id"], "link ledger account id")
		if err != nil {
			return err
		}

		dateBasis := row["date_basis"]
		if dateBasis == "" {
			dateBasis = "bookingDate"
		}

		syncEnabled := true
		if v := row["sync_enabled"]; v != "" {
			syncEnabled, err = strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid sync_enabled %q: %w", v, err)
			}
		}

		now := time.Now().UTC()
		link := &model.AccountLinkModel{
			ID:              id,
			LedgerAccountID: ledgerAccountID,
			BankAccountID:   row["bank_account_id"],
			InstitutionID:   row["institution_id"],
			Alias:           row["alias"],
			DateBasis:       dateBasis,
			SyncEnabled:     syncEnabled,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if v := row["requisition_id"]; v != "" {
			requisitionID, err := parseUUID(v, "link requisition id")
			if err != nil {
				return err
			}
			link.RequisitionID = &requisitionID
		}

		if err := testDB.DbConn.Create(link).Error; err != nil {
			return fmt.Errorf("failed to seed account link %s: %w", row["id"], err)
		}
	}
	return nil
}

func (t *testContext) theseRequisitionsExist(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := parseUUID(row["id"], "requisition id")
		if err != nil {
			return err
		}

		var accountIDs pq.StringArray
		if v := row["account_ids"]; v != "" {
			for _, part := range strings.Split(v, ",") {
				accountIDs = append(accountIDs, strings.TrimSpace(part))
			}
		}

		now := time.Now().UTC()
		requisition := &model.RequisitionModel{
			ID:            id,
			ProviderID:    row["provider_id"],
			InstitutionID: row["institution_id"],
			Status:        row["status"],
			Link:          row["link"],
			Reference:     row["reference"],
			AccountIDs:    accountIDs,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := testDB.DbConn.Create(requisition).Error; err != nil {
			return fmt.Errorf("failed to seed requisition %s: %w", row["id"], err)
		}
	}
	return nil
}

func (t *testContext) thesePayeeRulesExist(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := parseUUID(row["id"], "rule id")
		if err != nil {
			return err
		}
		accountID, err := parseUUID(row["account_id"], "rule account id")
		if err != nil {
			return err
		}

		priority := 0
		if v := row["priority"]; v != "" {
			priority, err = strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid priority %q: %w", v, err)
			}
		}

		active := true
		if v := row["is_active"]; v != "" {
			active, err = strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid is_active %q: %w", v, err)
			}
		}

		now := time.Now().UTC()
		rule := &model.PayeeRuleModel{
			ID:          id,
			Pattern:     row["pattern"],
			AccountID:   accountID,
			Description: row["description"],
			Priority:    priority,
			IsActive:    active,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := testDB.DbConn.Create(rule).Error; err != nil {
			return fmt.Errorf("failed to seed payee rule %s: %w", row["id"], err)
		}
	}
	return nil
}

func (t *testContext) theseDiscrepanciesExist(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := parseUUID(row["id"], "discrepancy id")
		if err != nil {
			return err
		}
		linkID, err := parseUUID(row["account_link_id"], "discrepancy link id")
		if err != nil {
			return err
		}

		ledgerBalance, err := decimal.NewFromString(row["ledger_balance"])
		if err != nil {
			return fmt.Errorf("invalid ledger_balance %q: %w", row["ledger_balance"], err)
		}
		bankBalance, err := decimal.NewFromString(row["bank_balance"])
		if err != nil {
			return fmt.Errorf("invalid bank_balance %q: %w", row["bank_balance"], err)
		}

		status := row["status"]
		if status == "" {
			status = "open"
		}

		now := time.Now().UTC()
		discrepancy := &model.DiscrepancyModel{
			ID:            id,
			AccountLinkID: linkID,
			LedgerBalance: ledgerBalance,
			BankBalance:   bankBalance,
			Difference:    bankBalance.Sub(ledgerBalance),
			Status:        status,
			Note:          row["note"],
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := testDB.DbConn.Create(discrepancy).Error; err != nil {
			return fmt.Errorf("failed to seed discrepancy %s: %w", row["id"], err)
		}
	}
	return nil
}

func (t *testContext) theseSyncRunsExist(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := parseUUID(row["id"], "sync run id")
		if err != nil {
			return err
		}
		linkID, err := parseUUID(row["account_link_id"], "sync run link id")
		if err != nil {
			return err
		}

		startedAt := time.Now().UTC()
		if v := row["started_at"]; v != "" {
			startedAt, err = parseDate(v, "started_at")
			if err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		run := &model.SyncRunModel{
			ID:            id,
			AccountLinkID: linkID,
			Status:        row["status"],
			StartedAt:     startedAt,
			ErrorMessage:  row["error_message"],
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if row["status"] != "running" {
			finished := startedAt.Add(time.Second)
			run.FinishedAt = &finished
		}
		if v := row["created"]; v != "" {
			run.Created, err = strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid created count %q: %w", v, err)
			}
		}
		if v := row["confirmed"]; v != "" {
			run.Confirmed, err = strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid confirmed count %q: %w", v, err)
			}
		}

		if err := testDB.DbConn.Create(run).Error; err != nil {
			return fmt.Errorf("failed to seed sync run %s: %w", row["id"], err)
		}
	}
	return nil
}

func (t *testContext) theseAccountSuggestionsExist(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := parseUUID(row["id"], "suggestion id")
		if err != nil {
			return err
		}
		transactionID, err := parseUUID(row["transaction_id"], "suggestion transaction id")
		if err != nil {
			return err
		}

		confidence := 0.9
		if v := row["confidence"]; v != "" {
			confidence, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid confidence %q: %w", v, err)
			}
		}

		status := row["status"]
		if status == "" {
			status = "pending"
		}

		var affected pq.StringArray
		if v := row["affected_transaction_ids"]; v != "" {
			for _, part := range strings.Split(v, ",") {
				affected = append(affected, strings.TrimSpace(part))
			}
		}

		now := time.Now().UTC()
		suggestion := &model.AccountSuggestionModel{
			ID:                     id,
			TransactionID:          transactionID,
			MatchType:              row["match_type"],
			MatchKeyword:           row["match_keyword"],
			AffectedTransactionIDs: affected,
			Confidence:             confidence,
			Reasoning:              row["reasoning"],
			Status:                 status,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if v := row["suggested_account_id"]; v != "" {
			accountID, err := parseUUID(v, "suggested account id")
			if err != nil {
				return err
			}
			suggestion.SuggestedAccountID = &accountID
		}
		if name := row["new_account_name"]; name != "" {
			suggestion.SuggestedAccountNew = &model.SuggestedAccountNewJSON{
				Name: name,
				Type: row["new_account_type"],
			}
		}

		if err := testDB.DbConn.Create(suggestion).Error; err != nil {
			return fmt.Errorf("failed to seed suggestion %s: %w", row["id"], err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Provider mock steps
// ---------------------------------------------------------------------------

func registerProviderSteps(ctx *godog.ScenarioContext, tc *testContext) {
	ctx.Step(`^the provider lists these institutions:$`, tc.theProviderListsTheseInstitutions)
	ctx.Step(`^the provider accepts requisition creation with id "([^"]*)" and link "([^"]*)"$`, tc.theProviderAcceptsRequisitionCreation)
	ctx.Step(`^the provider reports requisition "([^"]*)" as "([^"]*)" with accounts "([^"]*)"$`, tc.theProviderReportsRequisition)
	ctx.Step(`^the provider reports a "([^"]*)" balance of "([^"]*)" "([^"]*)" for bank account "([^"]*)"$`, tc.theProviderReportsABalance)
	ctx.Step(`^the provider reports these transactions for bank account "([^"]*)":$`, tc.theProviderReportsTheseTransactions)
	ctx.Step(`^the provider answers "([^"]*)" "([^"]*)" with status (\d+)$`, tc.theProviderAnswersWithStatus)
	ctx.Step(`^the provider should have received (\d+) requests? to "([^"]*)" "([^"]*)"$`, tc.theProviderShouldHaveReceivedRequests)
}

func (t *testContext) theProviderListsTheseInstitutions(body *godog.DocString) error {
	var institutions []any
	if err := json.Unmarshal([]byte(body.Content), &institutions); err != nil {
		return fmt.Errorf("invalid institutions JSON: %w", err)
	}
	apiMock.SetResponse(-1, "GET", "/api/v2/institutions/", http.StatusOK, institutions)
	return nil
}

func (t *testContext) theProviderAcceptsRequisitionCreation(providerID, link string) error {
	apiMock.SetResponse(-1, "POST", "/api/v2/requisitions/", http.StatusCreated, map[string]any{
		"id":        providerID,
		"status":    "CR",
		"link":      link,
		"reference": "",
		"accounts":  []string{},
	})
	return nil
}

func (t *testContext) theProviderReportsRequisition(providerID, status, accounts string) error {
	accountIDs := []string{}
	if accounts != "" {
		for _, part := range strings.Split(accounts, ",") {
			accountIDs = append(accountIDs, strings.TrimSpace(part))
		}
	}
	apiMock.SetResponse(-1, "GET", "/api/v2/requisitions/"+providerID+"/", http.StatusOK, map[string]any{
		"id":        providerID,
		"status":    status,
		"link":      "",
		"reference": "",
		"accounts":  accountIDs,
	})
	return nil
}

func (t *testContext) theProviderReportsABalance(balanceType, amount, currency, bankAccountID string) error {
	apiMock.SetResponse(-1, "GET", "/api/v2/accounts/"+bankAccountID+"/balances/", http.StatusOK, map[string]any{
		"balances": []map[string]any{
			{
				"balanceAmount": map[string]any{"amount": amount, "currency": currency},
				"balanceType":   balanceType,
				"referenceDate": time.Now().UTC().Format("2006-01-02"),
			},
		},
	})
	return nil
}

func (t *testContext) theProviderReportsTheseTransactions(bankAccountID string, table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	booked := []map[string]any{}
	pending := []map[string]any{}
	for _, row := range rows {
		valueDate := row["value_date"]
		if valueDate == "" {
			valueDate = row["booking_date"]
		}
		currency := row["currency"]
		if currency == "" {
			currency = "EUR"
		}

		item := map[string]any{
			"internalTransactionId":             row["external_id"],
			"transactionId":                     row["external_id"],
			"bookingDate":                       row["booking_date"],
			"valueDate":                         valueDate,
			"remittanceInformationUnstructured": row["description"],
			"transactionAmount": map[string]any{
				"amount":   row["amount"],
				"currency": currency,
			},
		}
		if row["state"] == "pending" {
			pending = append(pending, item)
		} else {
			booked = append(booked, item)
		}
	}

	apiMock.SetResponse(-1, "GET", "/api/v2/accounts/"+bankAccountID+"/transactions/", http.StatusOK, map[string]any{
		"transactions": map[string]any{"booked": booked, "pending": pending},
	})
	return nil
}

func (t *testContext) theProviderAnswersWithStatus(method, path string, status int) error {
	apiMock.SetResponse(-1, method, path, status, map[string]any{
		"summary": "configured failure",
		"detail":  "the scenario asked the provider to fail this call",
	})
	return nil
}

func (t *testContext) theProviderShouldHaveReceivedRequests(expected int, method, path string) error {
	got := apiMock.CountRequests(method, path)
	if got != expected {
		return fmt.Errorf("expected %d provider requests to %s %s, counted %d", expected, method, path, got)
	}
	return nil
}
