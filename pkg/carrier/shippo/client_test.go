package shippo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/fulfillment/pkg/carrier"
	"github.com/tournevent/fulfillment/pkg/carrier/shippo"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var testCred = carrier.Credential{Token: "shippo_test_abc", Environment: carrier.EnvironmentTest}

func newTestClient(mockClient *shippo.MockAPIClient) *shippo.Client {
	logger := otelzap.New(zap.NewNop())
	return shippo.NewWithAPIClient(
		shippo.Config{},
		mockClient,
		logger,
		nil,
	)
}

func testAddress() carrier.Address {
	return carrier.Address{
		Name:       "Jane Doe",
		Address1:   "215 Clayton St",
		City:       "San Francisco",
		State:      "CA",
		PostalCode: "94117",
		Country:    "US",
	}
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(shippo.NewMockAPIClient())
	assert.Equal(t, "shippo", client.Name())
}

func TestClient_ValidateAddress_Success(t *testing.T) {
	client := newTestClient(shippo.NewMockAPIClient())

	result, err := client.ValidateAddress(context.Background(), testCred, testAddress())

	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.NotNil(t, result.NormalizedAddress)
	assert.Equal(t, "215 CLAYTON ST", result.NormalizedAddress.Address1)
	assert.Equal(t, "94117", result.NormalizedAddress.PostalCode)
	assert.Empty(t, result.Messages)
}

func TestClient_ValidateAddress_SendsValidateFlag(t *testing.T) {
	mockAPI := shippo.NewMockAPIClient()
	var captured *shippo.AddressRequest
	var capturedToken string
	mockAPI.OnValidateAddress = func(ctx context.Context, token string, req *shippo.AddressRequest) (*shippo.AddressResponse, error) {
		captured = req
		capturedToken = token
		return &shippo.AddressResponse{}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.ValidateAddress(context.Background(), testCred, testAddress())
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.True(t, captured.Validate)
	assert.Equal(t, "215 Clayton St", captured.Street1)
	assert.Equal(t, "94117", captured.Zip)
	assert.Equal(t, "shippo_test_abc", capturedToken)
}

func TestClient_ValidateAddress_InvalidWithMessages(t *testing.T) {
	mockAPI := shippo.NewMockAPIClient()
	mockAPI.OnValidateAddress = func(ctx context.Context, token string, req *shippo.AddressRequest) (*shippo.AddressResponse, error) {
		invalid := false
		return &shippo.AddressResponse{
			ValidationResults: &shippo.ValidationResults{
				IsValid: &invalid,
				Messages: []shippo.ValidationMessage{
					{Source: "USPS", Code: "Unknown Street", Type: "address_error", Text: "Street could not be found."},
					{Source: "USPS", Code: "empty"},
				},
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	result, err := client.ValidateAddress(context.Background(), testCred, testAddress())

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Nil(t, result.NormalizedAddress)
	assert.Equal(t, []string{"Street could not be found."}, result.Messages)
}

func TestClient_ValidateAddress_MissingValidationBlock(t *testing.T) {
	mockAPI := shippo.NewMockAPIClient()
	mockAPI.OnValidateAddress = func(ctx context.Context, token string, req *shippo.AddressRequest) (*shippo.AddressResponse, error) {
		return &shippo.AddressResponse{ObjectID: "abc"}, nil
	}
	client := newTestClient(mockAPI)

	result, err := client.ValidateAddress(context.Background(), testCred, testAddress())

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotNil(t, result.Messages)
}

func TestClient_ValidateAddress_APIError(t *testing.T) {
	mockAPI := shippo.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.ValidateAddress(context.Background(), testCred, testAddress())

	require.Error(t, err)
	assert.True(t, errors.Is(err, carrier.ErrProviderUnavailable))

	var carrierErr *carrier.Error
	require.True(t, errors.As(err, &carrierErr))
	assert.Equal(t, "shippo", carrierErr.Provider)
	assert.Equal(t, 503, carrierErr.StatusCode)
	assert.Equal(t, "Simulated API error", carrierErr.Message)
}

func TestClient_ValidateAddress_APIErrorWithoutMessage(t *testing.T) {
	mockAPI := shippo.NewMockAPIClient()
	mockAPI.OnValidateAddress = func(ctx context.Context, token string, req *shippo.AddressRequest) (*shippo.AddressResponse, error) {
		return nil, &shippo.APIError{StatusCode: 500}
	}
	client := newTestClient(mockAPI)

	_, err := client.ValidateAddress(context.Background(), testCred, testAddress())

	require.Error(t, err)
	assert.Equal(t, "Address validation failed", carrier.PublicMessage(err))
}

func TestClient_ValidateAddress_TransportError(t *testing.T) {
	mockAPI := shippo.NewMockAPIClient()
	mockAPI.OnValidateAddress = func(ctx context.Context, token string, req *shippo.AddressRequest) (*shippo.AddressResponse, error) {
		return nil, &shippo.TransportError{Err: errors.New("connection refused")}
	}
	client := newTestClient(mockAPI)

	_, err := client.ValidateAddress(context.Background(), testCred, testAddress())

	assert.True(t, errors.Is(err, carrier.ErrProviderUnavailable))
	assert.Equal(t, 500, carrier.HTTPStatus(err))
}

func TestClient_ValidateAddress_LocalErrorUnchanged(t *testing.T) {
	local := errors.New("failed to marshal request body")
	mockAPI := shippo.NewMockAPIClient()
	mockAPI.OnValidateAddress = func(ctx context.Context, token string, req *shippo.AddressRequest) (*shippo.AddressResponse, error) {
		return nil, local
	}
	client := newTestClient(mockAPI)

	_, err := client.ValidateAddress(context.Background(), testCred, testAddress())

	assert.Same(t, local, err)
	assert.False(t, errors.Is(err, carrier.ErrProviderUnavailable))
}

func TestClient_FetchTransaction_ReturnsRawResponse(t *testing.T) {
	client := newTestClient(shippo.NewMockAPIClient())

	resp, err := client.FetchTransaction(context.Background(), testCred, "tx-42")

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, resp.Succeeded())
	assert.Contains(t, string(resp.Body), `"object_id":"tx-42"`)
}

func TestClient_FetchTransaction_Non2xxIsData(t *testing.T) {
	mockAPI := shippo.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	resp, err := client.FetchTransaction(context.Background(), testCred, "tx-42")

	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
	assert.False(t, resp.Succeeded())
}

func TestClient_FetchTransaction_TransportError(t *testing.T) {
	mockAPI := shippo.NewMockAPIClient()
	mockAPI.OnGetTransaction = func(ctx context.Context, token string, transactionID string) (*shippo.TransactionResponse, error) {
		return nil, &shippo.TransportError{Err: errors.New("i/o timeout")}
	}
	client := newTestClient(mockAPI)

	_, err := client.FetchTransaction(context.Background(), testCred, "tx-42")

	assert.True(t, errors.Is(err, carrier.ErrProviderUnavailable))
	assert.Equal(t, "Carrier API unreachable", carrier.PublicMessage(err))
}

func TestClient_ListCarrierAccounts(t *testing.T) {
	client := newTestClient(shippo.NewMockAPIClient())

	accounts, err := client.ListCarrierAccounts(context.Background(), testCred)

	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "usps", accounts[0].Carrier)
	assert.True(t, accounts[0].Active)
	assert.False(t, accounts[2].Active)
}

func TestClient_ListCarrierAccounts_APIError(t *testing.T) {
	mockAPI := shippo.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.ListCarrierAccounts(context.Background(), testCred)

	assert.True(t, errors.Is(err, carrier.ErrProviderUnavailable))
}

func TestMockAPIClient_LatencyHonorsContext(t *testing.T) {
	mockAPI := shippo.NewMockAPIClient()
	mockAPI.SimulateLatency = time.Hour
	client := newTestClient(mockAPI)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchTransaction(ctx, testCred, "tx-42")

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, errors.Is(err, carrier.ErrProviderUnavailable))
}
