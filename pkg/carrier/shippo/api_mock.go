package shippo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing and for
// running the gateway without carrier access.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnValidateAddress     func(ctx context.Context, token string, req *AddressRequest) (*AddressResponse, error)
	OnGetTransaction      func(ctx context.Context, token string, transactionID string) (*TransactionResponse, error)
	OnListCarrierAccounts func(ctx context.Context, token string) (*CarrierAccountsResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

func (m *MockAPIClient) wait(ctx context.Context) error {
	if m.SimulateLatency <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return &TransportError{Err: ctx.Err()}
	case <-time.After(m.SimulateLatency):
		return nil
	}
}

// ValidateAddress returns the address upper-cased and marked valid.
func (m *MockAPIClient) ValidateAddress(ctx context.Context, token string, req *AddressRequest) (*AddressResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	if m.SimulateErrors {
		return nil, &APIError{StatusCode: 503, Message: "Simulated API error"}
	}

	if m.OnValidateAddress != nil {
		return m.OnValidateAddress(ctx, token, req)
	}

	valid := true
	return &AddressResponse{
		ObjectID:   strings.ReplaceAll(uuid.New().String(), "-", ""),
		IsComplete: true,
		Name:       req.Name,
		Street1:    strings.ToUpper(req.Street1),
		Street2:    strings.ToUpper(req.Street2),
		City:       strings.ToUpper(req.City),
		State:      strings.ToUpper(req.State),
		Zip:        req.Zip,
		Country:    strings.ToUpper(req.Country),
		Phone:      req.Phone,
		Email:      req.Email,
		Test:       strings.HasPrefix(token, "shippo_test_"),
		ValidationResults: &ValidationResults{
			IsValid:  &valid,
			Messages: []ValidationMessage{},
		},
	}, nil
}

// GetTransaction returns a successful label transaction.
func (m *MockAPIClient) GetTransaction(ctx context.Context, token string, transactionID string) (*TransactionResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	if m.SimulateErrors {
		return &TransactionResponse{
			StatusCode: 503,
			Body:       []byte(`{"detail":"Simulated API error"}`),
		}, nil
	}

	if m.OnGetTransaction != nil {
		return m.OnGetTransaction(ctx, token, transactionID)
	}

	body := fmt.Sprintf(`{"object_id":%q,"object_state":"VALID","status":"SUCCESS","tracking_number":"92055901755477000000000015","tracking_url_provider":"https://tools.usps.com/go/TrackConfirmAction?tLabels=92055901755477000000000015","label_url":"https://deliver.goshippo.com/%s.pdf","test":%t}`,
		transactionID, transactionID, strings.HasPrefix(token, "shippo_test_"))
	return &TransactionResponse{StatusCode: 200, Body: []byte(body)}, nil
}

// ListCarrierAccounts returns a small fixed account list.
func (m *MockAPIClient) ListCarrierAccounts(ctx context.Context, token string) (*CarrierAccountsResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	if m.SimulateErrors {
		return nil, &APIError{StatusCode: 503, Message: "Simulated API error"}
	}

	if m.OnListCarrierAccounts != nil {
		return m.OnListCarrierAccounts(ctx, token)
	}

	return &CarrierAccountsResponse{
		Results: []CarrierAccount{
			{ObjectID: "b741b99f95e841639b54272834bc478c", Carrier: "usps", AccountID: "shippo_usps_account", Active: true, Test: true},
			{ObjectID: "c0f6b1e3b6b74a1d8d0c7f5b2b9f8e11", Carrier: "ups", AccountID: "shippo_ups_account", Active: true, Test: true},
			{ObjectID: "0a8f3d3e5c1f4f3c9a7a5f5e2d1c0b9a", Carrier: "dhl_express", AccountID: "shippo_dhlexpress_account", Active: false, Test: true},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
