package shippo

import (
	"context"
	"fmt"
)

// APIClient defines the interface for Shippo API operations.
// The token is passed per call so one client can serve both the live and
// the test credential.
type APIClient interface {
	// ValidateAddress creates an address with validation enabled.
	ValidateAddress(ctx context.Context, token string, req *AddressRequest) (*AddressResponse, error)

	// GetTransaction fetches a label transaction and returns the raw response.
	GetTransaction(ctx context.Context, token string, transactionID string) (*TransactionResponse, error)

	// ListCarrierAccounts lists the carrier accounts of the token's owner.
	ListCarrierAccounts(ctx context.Context, token string) (*CarrierAccountsResponse, error)
}

// ============================================================================
// API Request/Response Types (Shippo REST API)
// ============================================================================

// AddressRequest represents a Shippo address creation request.
// POST /addresses/
type AddressRequest struct {
	Name     string `json:"name,omitempty"`
	Company  string `json:"company,omitempty"`
	Street1  string `json:"street1"`
	Street2  string `json:"street2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Validate bool   `json:"validate"`
}

// AddressResponse represents a Shippo address object.
type AddressResponse struct {
	ObjectID          string             `json:"object_id"`
	IsComplete        bool               `json:"is_complete"`
	Name              string             `json:"name"`
	Street1           string             `json:"street1"`
	Street2           string             `json:"street2"`
	City              string             `json:"city"`
	State             string             `json:"state"`
	Zip               string             `json:"zip"`
	Country           string             `json:"country"`
	Phone             string             `json:"phone"`
	Email             string             `json:"email"`
	IsResidential     *bool              `json:"is_residential"`
	Test              bool               `json:"test"`
	ValidationResults *ValidationResults `json:"validation_results"`
}

// ValidationResults is the validation block of an address object.
type ValidationResults struct {
	IsValid  *bool               `json:"is_valid"`
	Messages []ValidationMessage `json:"messages"`
}

// ValidationMessage is a single validation note.
type ValidationMessage struct {
	Source string `json:"source"`
	Code   string `json:"code"`
	Type   string `json:"type"`
	Text   string `json:"text"`
}

// TransactionResponse is an unparsed GET /transactions/{id} response.
// The body is provider-defined and kept as-is.
type TransactionResponse struct {
	StatusCode int
	Body       []byte
}

// CarrierAccountsResponse represents GET /carrier_accounts/.
type CarrierAccountsResponse struct {
	Next    string           `json:"next"`
	Results []CarrierAccount `json:"results"`
}

// CarrierAccount is a carrier account object.
type CarrierAccount struct {
	ObjectID  string `json:"object_id"`
	Carrier   string `json:"carrier"`
	AccountID string `json:"account_id"`
	Active    bool   `json:"active"`
	Test      bool   `json:"test"`
}

// APIError represents an error response from the Shippo API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP_%d: %s", e.StatusCode, e.Message)
}

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
