// Package mock provides a mock carrier provider for testing.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/tournevent/fulfillment/pkg/carrier"
)

// Operation names used by Calls.
const (
	OpValidateAddress     = "validate_address"
	OpFetchTransaction    = "fetch_transaction"
	OpListCarrierAccounts = "list_carrier_accounts"
)

// Provider is a mock carrier provider that counts calls per operation and
// environment. Default behavior succeeds; the On* hooks override it.
type Provider struct {
	name string

	OnValidateAddress     func(ctx context.Context, cred carrier.Credential, addr carrier.Address) (*carrier.ValidationResult, error)
	OnFetchTransaction    func(ctx context.Context, cred carrier.Credential, transactionID string) (*carrier.RawResponse, error)
	OnListCarrierAccounts func(ctx context.Context, cred carrier.Credential) ([]carrier.CarrierAccount, error)

	mu    sync.Mutex
	calls map[string]int
}

// New creates a new mock provider.
func New(name string) *Provider {
	return &Provider{
		name:  name,
		calls: make(map[string]int),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

// Calls returns how many times op was invoked. With an environment argument
// only calls made with that environment's credential are counted.
func (p *Provider) Calls(op string, env ...carrier.Environment) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(env) == 0 {
		return p.calls[op]
	}
	return p.calls[op+":"+string(env[0])]
}

func (p *Provider) record(op string, cred carrier.Credential) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[op]++
	p.calls[op+":"+string(cred.Environment)]++
}

// ValidateAddress echoes the address back as valid.
func (p *Provider) ValidateAddress(ctx context.Context, cred carrier.Credential, addr carrier.Address) (*carrier.ValidationResult, error) {
	p.record(OpValidateAddress, cred)
	if p.OnValidateAddress != nil {
		return p.OnValidateAddress(ctx, cred, addr)
	}

	normalized := addr
	return &carrier.ValidationResult{
		Valid:             true,
		NormalizedAddress: &normalized,
		Messages:          []string{},
	}, nil
}

// FetchTransaction returns a successful transaction body.
func (p *Provider) FetchTransaction(ctx context.Context, cred carrier.Credential, transactionID string) (*carrier.RawResponse, error) {
	p.record(OpFetchTransaction, cred)
	if p.OnFetchTransaction != nil {
		return p.OnFetchTransaction(ctx, cred, transactionID)
	}

	body := fmt.Sprintf(`{"object_id":%q,"status":"SUCCESS","tracking_number":"9400100000000000000000","label_url":"https://labels.%s.mock/%s.pdf"}`,
		transactionID, p.name, transactionID)
	return &carrier.RawResponse{StatusCode: 200, Body: []byte(body)}, nil
}

// ListCarrierAccounts returns two active accounts and an inactive one.
func (p *Provider) ListCarrierAccounts(ctx context.Context, cred carrier.Credential) ([]carrier.CarrierAccount, error) {
	p.record(OpListCarrierAccounts, cred)
	if p.OnListCarrierAccounts != nil {
		return p.OnListCarrierAccounts(ctx, cred)
	}

	return []carrier.CarrierAccount{
		{ID: p.name + "-usps", Carrier: "usps", Active: true, Test: cred.Environment == carrier.EnvironmentTest},
		{ID: p.name + "-ups", Carrier: "ups", Active: true, Test: cred.Environment == carrier.EnvironmentTest},
		{ID: p.name + "-fedex", Carrier: "fedex", Active: false, Test: cred.Environment == carrier.EnvironmentTest},
	}, nil
}

var _ carrier.Provider = (*Provider)(nil)
