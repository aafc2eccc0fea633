// Package carrier provides the abstraction layer between the gateway and
// external carrier providers: credential resolution, address validation and
// purchased-label transaction lookup with cross-credential fallback.
package carrier

import (
	"context"
)

// Provider defines the operations the gateway needs from a carrier API.
// Implementations are stateless with respect to credentials: every call names
// the credential it must be made with.
type Provider interface {
	// Name returns the provider identifier (e.g., "shippo").
	Name() string

	// ValidateAddress asks the provider to validate and normalize an address.
	ValidateAddress(ctx context.Context, cred Credential, addr Address) (*ValidationResult, error)

	// FetchTransaction returns the raw upstream response for a label transaction.
	// Non-2xx responses are returned as data, not as errors. An error means
	// the call could not be completed at all.
	FetchTransaction(ctx context.Context, cred Credential, transactionID string) (*RawResponse, error)

	// ListCarrierAccounts returns the carrier accounts visible to the credential.
	ListCarrierAccounts(ctx context.Context, cred Credential) ([]CarrierAccount, error)
}
