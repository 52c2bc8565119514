package ledger

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
)

// ClientConfig represents the configuration for the ledger API client.
type ClientConfig struct {
	APIURL     string
	Timeout    time.Duration // Default: 30 seconds
	HTTPClient *http.Client  // Optional; overrides Timeout when set
}

// Client is a ledger service API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new ledger API client.
func NewClient(config ClientConfig) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(config.APIURL, "/"),
	}
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetAccount fetches the current account state for a handle.
func (c *Client) GetAccount(ctx context.Context, handle string) (*Account, error) {
	endpoint := fmt.Sprintf("%s/api/user/%s", c.baseURL, url.PathEscape(handle))

	var account Account
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// ListTransactions fetches the full transaction history for a handle.
// The service returns it newest first.
func (c *Client) ListTransactions(ctx context.Context, handle string) ([]Transaction, error) {
	endpoint := fmt.Sprintf("%s/api/transactions/%s", c.baseURL, url.PathEscape(handle))

	var transactions []Transaction
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &transactions); err != nil {
		return nil, err
	}

	if transactions == nil {
		transactions = []Transaction{}
	}
	return transactions, nil
}

// Transfer submits a peer-to-peer transfer.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	endpoint := fmt.Sprintf("%s/api/transaction", c.baseURL)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var resp TransferResponse
	if err := c.do(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// APIError is returned when the ledger service answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string // service-provided message, may be empty
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ledger API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ledger API error (status %d)", e.StatusCode)
}

// ErrorMessage returns the service-provided message carried by err, if any.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// parseError parses an error response from the ledger service.
func (c *Client) parseError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	apiErr.Body = string(body)

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Message = errResp.Message
	}

	return apiErr
}
