package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

const (
	bankDataDateLayout = "2006-01-02"

	// Transaction listings for busy accounts can get large.
	bankDataMaxResponseBytes = 8 * 1024 * 1024
)

// balanceTypePriority lists provider balance types in preference order. The
// first type present anchors the balance check.
var balanceTypePriority = []string{
	"expectedClosed",
	"interimBooked",
	"closingBooked",
	"openingBooked",
	"information",
	"interimAvailable",
	"closingAvailable",
	"openingAvailable",
}

// errNotFound marks 404 responses so each call site can map them to the
// right domain error.
var errNotFound = errors.New("resource not found at provider")

// BankDataClient implements the BankFeedClient interface against the
// GoCardless Bank Account Data API. All endpoint paths carry a trailing
// slash; the API redirects without one and drops the request body.
type BankDataClient struct {
	baseURL    string
	secretID   string
	secretKey  string
	httpClient *http.Client
}

// NewBankDataClient creates a new bank data client instance.
func NewBankDataClient(baseURL, secretID, secretKey string, timeout time.Duration) *BankDataClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BankDataClient{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		secretID:   secretID,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tokenNewResponse struct {
	Access         string `json:"access"`
	AccessExpires  int64  `json:"access_expires"`
	Refresh        string `json:"refresh"`
	RefreshExpires int64  `json:"refresh_expires"`
}

type tokenRefreshResponse struct {
	Access        string `json:"access"`
	AccessExpires int64  `json:"access_expires"`
}

type institutionPayload struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	BIC                  string   `json:"bic"`
	TransactionTotalDays string   `json:"transaction_total_days"`
	Countries            []string `json:"countries"`
	Logo                 string   `json:"logo"`
}

type requisitionPayload struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	Link      string   `json:"link"`
	Reference string   `json:"reference"`
	Accounts  []string `json:"accounts"`
}

type amountPayload struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type balancePayload struct {
	BalanceAmount amountPayload `json:"balanceAmount"`
	BalanceType   string        `json:"balanceType"`
	ReferenceDate string        `json:"referenceDate"`
}

type balancesResponse struct {
	Balances []balancePayload `json:"balances"`
}

type transactionPayload struct {
	InternalTransactionID             string        `json:"internalTransactionId"`
	TransactionID                     string        `json:"transactionId"`
	BookingDate                       string        `json:"bookingDate"`
	ValueDate                         string        `json:"valueDate"`
	RemittanceInformationUnstructured string        `json:"remittanceInformationUnstructured"`
	TransactionAmount                 amountPayload `json:"transactionAmount"`
}

type transactionsResponse struct {
	Transactions struct {
		Booked  []transactionPayload `json:"booked"`
		Pending []transactionPayload `json:"pending"`
	} `json:"transactions"`
}

// ObtainTokens exchanges the configured secrets for a fresh token pair.
func (c *BankDataClient) ObtainTokens(ctx context.Context) (*adapter.TokenPair, error) {
	payload := map[string]string{
		"secret_id":  c.secretID,
		"secret_key": c.secretKey,
	}

	var resp tokenNewResponse
	if err := c.doJSON(ctx, http.MethodPost, "token/new/", "", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Access == "" || resp.Refresh == "" {
		return nil, fmt.Errorf("%w: token response missing tokens", domainerror.ErrFeedResponseMalformed)
	}

	now := time.Now().UTC()
	return &adapter.TokenPair{
		Access:           resp.Access,
		AccessExpiresAt:  now.Add(time.Duration(resp.AccessExpires) * time.Second),
		Refresh:          resp.Refresh,
		RefreshExpiresAt: now.Add(time.Duration(resp.RefreshExpires) * time.Second),
	}, nil
}

// RefreshAccessToken mints a new access token from a refresh token.
func (c *BankDataClient) RefreshAccessToken(ctx context.Context, refresh string) (string, time.Time, error) {
	payload := map[string]string{"refresh": refresh}

	var resp tokenRefreshResponse
	if err := c.doJSON(ctx, http.MethodPost, "token/refresh/", "", payload, &resp); err != nil {
		return "", time.Time{}, err
	}
	if resp.Access == "" {
		return "", time.Time{}, fmt.Errorf("%w: refresh response missing access token", domainerror.ErrFeedResponseMalformed)
	}

	expiresAt := time.Now().UTC().Add(time.Duration(resp.AccessExpires) * time.Second)
	return resp.Access, expiresAt, nil
}

// ListInstitutions retrieves the institutions available in a country.
func (c *BankDataClient) ListInstitutions(ctx context.Context, accessToken, countryCode string) ([]*entity.Institution, error) {
	path := "institutions/?country=" + url.QueryEscape(countryCode)

	var payloads []institutionPayload
	if err := c.doJSON(ctx, http.MethodGet, path, accessToken, nil, &payloads); err != nil {
		return nil, err
	}

	institutions := make([]*entity.Institution, len(payloads))
	for i, p := range payloads {
		institutions[i] = &entity.Institution{
			ID:                   p.ID,
			Name:                 p.Name,
			BIC:                  p.BIC,
			TransactionTotalDays: p.TransactionTotalDays,
			Countries:            p.Countries,
			Logo:                 p.Logo,
		}
	}
	return institutions, nil
}

// CreateRequisition starts a consent flow for an institution.
func (c *BankDataClient) CreateRequisition(ctx context.Context, accessToken, institutionID, redirectURL, reference string) (*adapter.ProviderRequisition, error) {
	payload := map[string]string{
		"redirect":       redirectURL,
		"institution_id": institutionID,
	}
	if reference != "" {
		payload["reference"] = reference
	}

	var resp requisitionPayload
	if err := c.doJSON(ctx, http.MethodPost, "requisitions/", accessToken, payload, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, domainerror.ErrInstitutionNotFound
		}
		return nil, err
	}
	return providerRequisitionFromPayload(&resp), nil
}

// GetRequisition retrieves the provider's current view of a requisition.
func (c *BankDataClient) GetRequisition(ctx context.Context, accessToken, requisitionID string) (*adapter.ProviderRequisition, error) {
	path := "requisitions/" + url.PathEscape(requisitionID) + "/"

	var resp requisitionPayload
	if err := c.doJSON(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, domainerror.ErrRequisitionNotFound
		}
		return nil, err
	}
	return providerRequisitionFromPayload(&resp), nil
}

// DeleteRequisition removes a requisition at the provider.
func (c *BankDataClient) DeleteRequisition(ctx context.Context, accessToken, requisitionID string) error {
	path := "requisitions/" + url.PathEscape(requisitionID) + "/"

	err := c.doJSON(ctx, http.MethodDelete, path, accessToken, nil, nil)
	if errors.Is(err, errNotFound) {
		return domainerror.ErrRequisitionNotFound
	}
	return err
}

// GetBalance retrieves the usable balance for a bank account. The provider
// reports several balance types; the first one on the priority list wins.
func (c *BankDataClient) GetBalance(ctx context.Context, accessToken, bankAccountID string) (*entity.BankBalance, error) {
	path := "accounts/" + url.PathEscape(bankAccountID) + "/balances/"

	var resp balancesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, domainerror.ErrFeedAccountNotFound
		}
		return nil, err
	}

	byType := make(map[string]balancePayload, len(resp.Balances))
	for _, balance := range resp.Balances {
		byType[balance.BalanceType] = balance
	}

	for _, balanceType := range balanceTypePriority {
		balance, ok := byType[balanceType]
		if !ok {
			continue
		}

		amount, err := decimal.NewFromString(balance.BalanceAmount.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: balance amount %q", domainerror.ErrFeedResponseMalformed, balance.BalanceAmount.Amount)
		}

		result := &entity.BankBalance{
			Amount:      amount,
			Currency:    balance.BalanceAmount.Currency,
			BalanceType: balanceType,
		}
		if balance.ReferenceDate != "" {
			if referenceDate, err := time.Parse(bankDataDateLayout, balance.ReferenceDate); err == nil {
				result.ReferenceDate = &referenceDate
			}
		}
		return result, nil
	}

	return nil, domainerror.ErrNoUsableBalance
}

// GetTransactions retrieves booked and pending transactions for a bank account.
func (c *BankDataClient) GetTransactions(ctx context.Context, accessToken, bankAccountID string) ([]entity.BankTransaction, []entity.BankTransaction, error) {
	path := "accounts/" + url.PathEscape(bankAccountID) + "/transactions/"

	var resp transactionsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil, domainerror.ErrFeedAccountNotFound
		}
		return nil, nil, err
	}

	booked, err := bankTransactionsFromPayloads(resp.Transactions.Booked)
	if err != nil {
		return nil, nil, err
	}
	pending, err := bankTransactionsFromPayloads(resp.Transactions.Pending)
	if err != nil {
		return nil, nil, err
	}
	return booked, pending, nil
}

func providerRequisitionFromPayload(p *requisitionPayload) *adapter.ProviderRequisition {
	return &adapter.ProviderRequisition{
		ID:         p.ID,
		Status:     p.Status,
		Link:       p.Link,
		Reference:  p.Reference,
		AccountIDs: p.Accounts,
	}
}

func bankTransactionsFromPayloads(payloads []transactionPayload) ([]entity.BankTransaction, error) {
	transactions := make([]entity.BankTransaction, 0, len(payloads))
	for _, p := range payloads {
		amount, err := decimal.NewFromString(p.TransactionAmount.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction amount %q", domainerror.ErrFeedResponseMalformed, p.TransactionAmount.Amount)
		}

		externalID := p.InternalTransactionID
		if externalID == "" {
			externalID = p.TransactionID
		}

		transactions = append(transactions, entity.BankTransaction{
			ExternalID:  externalID,
			BookingDate: parseBankDataDate(p.BookingDate),
			ValueDate:   parseBankDataDate(p.ValueDate),
			Amount:      amount,
			Currency:    p.TransactionAmount.Currency,
			Description: p.RemittanceInformationUnstructured,
		})
	}
	return transactions, nil
}

func parseBankDataDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(bankDataDateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// doJSON performs one API request, decoding the JSON response into out when
// out is non-nil.
func (c *BankDataClient) doJSON(ctx context.Context, method, path, accessToken string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerror.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, bankDataMaxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domainerror.ErrFeedUnauthorized, summarizeBody(responseBody))
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", errNotFound, method, path)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domainerror.ErrFeedRateLimited, summarizeBody(responseBody))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", domainerror.ErrFeedUnavailable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("bank data api %s %s: status %d: %s", method, path, resp.StatusCode, summarizeBody(responseBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("%w: %v", domainerror.ErrFeedResponseMalformed, err)
	}
	return nil
}

// summarizeBody trims an error payload down to something loggable.
func summarizeBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 512 {
		text = text[:512]
	}
	return text
}
