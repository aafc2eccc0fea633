// Package shippo provides integration with the Shippo shipping API.
package shippo

import (
	"context"
	"errors"
	"time"

	"github.com/tournevent/fulfillment/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const providerName = "shippo"

// Config holds Shippo configuration. Tokens are not part of it: they arrive
// with every call as a carrier.Credential.
type Config struct {
	BaseURL string
	Timeout time.Duration
	UseMock bool // When true, uses mock API client
}

// Client is the Shippo provider.
// It implements the carrier.Provider interface and delegates
// API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Shippo client.
// If cfg.UseMock is true, it uses a mock API client.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new Shippo client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if tracer == nil {
		tracer = otel.Tracer("github.com/tournevent/fulfillment/pkg/carrier/shippo")
	}
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// ValidateAddress validates an address with Shippo.
func (c *Client) ValidateAddress(ctx context.Context, cred carrier.Credential, addr carrier.Address) (*carrier.ValidationResult, error) {
	ctx, span := c.startSpan(ctx, "shippo.ValidateAddress", cred)
	defer span.End()

	apiResp, err := c.apiClient.ValidateAddress(ctx, cred.Token, addressToAPI(addr))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validate address failed")
		c.logger.Ctx(ctx).Error("Shippo API error", zap.String("operation", "validate_address"), zap.Error(err))
		return nil, c.classify(err, "Address validation failed")
	}

	return addressResponseToCarrier(apiResp), nil
}

// FetchTransaction fetches a label transaction from Shippo.
func (c *Client) FetchTransaction(ctx context.Context, cred carrier.Credential, transactionID string) (*carrier.RawResponse, error) {
	ctx, span := c.startSpan(ctx, "shippo.FetchTransaction", cred)
	defer span.End()

	apiResp, err := c.apiClient.GetTransaction(ctx, cred.Token, transactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch transaction failed")
		c.logger.Ctx(ctx).Error("Shippo API error", zap.String("operation", "get_transaction"), zap.Error(err))
		return nil, c.classify(err, "Carrier API unreachable")
	}

	span.SetAttributes(attribute.Int("http.response.status_code", apiResp.StatusCode))
	return &carrier.RawResponse{
		StatusCode: apiResp.StatusCode,
		Body:       apiResp.Body,
	}, nil
}

// ListCarrierAccounts lists the carrier accounts visible to the credential.
func (c *Client) ListCarrierAccounts(ctx context.Context, cred carrier.Credential) ([]carrier.CarrierAccount, error) {
	ctx, span := c.startSpan(ctx, "shippo.ListCarrierAccounts", cred)
	defer span.End()

	apiResp, err := c.apiClient.ListCarrierAccounts(ctx, cred.Token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list carrier accounts failed")
		c.logger.Ctx(ctx).Error("Shippo API error", zap.String("operation", "list_carrier_accounts"), zap.Error(err))
		return nil, c.classify(err, "Failed to list carrier accounts")
	}

	accounts := make([]carrier.CarrierAccount, len(apiResp.Results))
	for i, a := range apiResp.Results {
		accounts[i] = carrier.CarrierAccount{
			ID:      a.ObjectID,
			Carrier: a.Carrier,
			Active:  a.Active,
			Test:    a.Test,
		}
	}
	return accounts, nil
}

func (c *Client) startSpan(ctx context.Context, name string, cred carrier.Credential) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("carrier.provider", providerName),
		attribute.String("carrier.environment", string(cred.Environment)),
	))
}

// classify turns API client errors into carrier errors. Upstream and
// transport failures become ProviderUnavailable; anything else happened
// locally and is returned unchanged.
func (c *Client) classify(err error, fallback string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return carrier.NewError(carrier.KindProviderUnavailable, msg).
			WithProvider(providerName).
			WithStatusCode(apiErr.StatusCode).
			WithCause(err)
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return carrier.NewError(carrier.KindProviderUnavailable, fallback).
			WithProvider(providerName).
			WithCause(err)
	}
	return err
}

// ============================================================================
// Conversion helpers
// ============================================================================

func addressToAPI(addr carrier.Address) *AddressRequest {
	return &AddressRequest{
		Name:     addr.Name,
		Street1:  addr.Address1,
		Street2:  addr.Address2,
		City:     addr.City,
		State:    addr.State,
		Zip:      addr.PostalCode,
		Country:  addr.Country,
		Phone:    addr.Phone,
		Email:    addr.Email,
		Validate: true,
	}
}

func addressResponseToCarrier(resp *AddressResponse) *carrier.ValidationResult {
	result := &carrier.ValidationResult{
		Messages: []string{},
	}

	if vr := resp.ValidationResults; vr != nil {
		result.Valid = vr.IsValid != nil && *vr.IsValid
		for _, m := range vr.Messages {
			if m.Text != "" {
				result.Messages = append(result.Messages, m.Text)
			}
		}
	}

	if result.Valid {
		result.NormalizedAddress = &carrier.Address{
			Name:       resp.Name,
			Phone:      resp.Phone,
			Email:      resp.Email,
			Address1:   resp.Street1,
			Address2:   resp.Street2,
			City:       resp.City,
			State:      resp.State,
			PostalCode: resp.Zip,
			Country:    resp.Country,
		}
	}
	return result
}

var _ carrier.Provider = (*Client)(nil)
