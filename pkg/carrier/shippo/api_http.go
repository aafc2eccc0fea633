package shippo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "fulfillment-gateway/1.0"
	}

	return &HTTPAPIClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ValidateAddress creates an address object with validate=true.
// POST /addresses/
func (c *HTTPAPIClient) ValidateAddress(ctx context.Context, token string, req *AddressRequest) (*AddressResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/addresses/", token, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.parseError(resp)
	}

	var result AddressResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&result); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    "malformed address response",
		}
	}
	return &result, nil
}

// GetTransaction fetches a transaction without interpreting the response.
// GET /transactions/{transaction_id}
func (c *HTTPAPIClient) GetTransaction(ctx context.Context, token string, transactionID string) (*TransactionResponse, error) {
	path := "/transactions/" + url.PathEscape(transactionID)

	resp, err := c.doRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("reading transaction body: %w", err)}
	}

	return &TransactionResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// ListCarrierAccounts lists carrier accounts.
// GET /carrier_accounts/?results=100
func (c *HTTPAPIClient) ListCarrierAccounts(ctx context.Context, token string) (*CarrierAccountsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/carrier_accounts/?results=100", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result CarrierAccountsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&result); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    "malformed carrier accounts response",
		}
	}
	return &result, nil
}

// doRequest performs an HTTP request with proper headers and authentication.
// Failures before a response exists are returned as *TransportError, except
// request construction failures which are local and returned plainly.
func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path, token string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "ShippoToken "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

// parseError extracts error information from an HTTP response.
// Shippo answers with {"detail": "..."} or with field → messages maps.
func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	var detailErr struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &detailErr); err == nil {
		msg := detailErr.Detail
		if msg == "" {
			msg = detailErr.Message
		}
		if msg != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: msg}
		}
	}

	var fieldErrs map[string][]string
	if err := json.Unmarshal(body, &fieldErrs); err == nil && len(fieldErrs) > 0 {
		fields := make([]string, 0, len(fieldErrs))
		for field := range fieldErrs {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, field+": "+strings.Join(fieldErrs[field], " "))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.Join(parts, "; ")}
	}

	return &APIError{StatusCode: resp.StatusCode}
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
