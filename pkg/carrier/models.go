package carrier

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Environment identifies which carrier-provider environment a credential targets.
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentTest       Environment = "test"
)

// DefaultCountry is applied to addresses that do not name a country.
const DefaultCountry = "US"

// Credential is an opaque provider token scoped to one environment.
type Credential struct {
	Token       string
	Environment Environment
}

// String never prints the token.
func (c Credential) String() string {
	return "credential(" + string(c.Environment) + ")"
}

// FlowContext carries the request-derived hints used for credential selection.
type FlowContext struct {
	IsTestFlow bool
}

// Address represents a postal address submitted for validation.
type Address struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Address1   string `json:"address1" validate:"required"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country,omitempty"`
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims every field, applies the default country and checks the
// required fields. It fails with KindMalformedInput.
func (a Address) Normalize() (Address, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Email = strings.TrimSpace(a.Email)
	a.Address1 = strings.TrimSpace(a.Address1)
	a.Address2 = strings.TrimSpace(a.Address2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = DefaultCountry
	}

	if err := validate.Struct(a); err != nil {
		var missing []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
		}
		return Address{}, NewError(KindMalformedInput, "missing required address fields: "+strings.Join(missing, ", ")).WithCause(err)
	}
	return a, nil
}

// ValidationResult is the outcome of one provider validation call.
type ValidationResult struct {
	Valid             bool
	NormalizedAddress *Address
	Messages          []string
	Environment       Environment
}

// CarrierAccount is a carrier account as reported by the provider.
type CarrierAccount struct {
	ID      string
	Carrier string
	Active  bool
	Test    bool
}

// RawResponse is an upstream HTTP response kept for diagnostics.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Succeeded reports whether the upstream answered with a 2xx status.
func (r *RawResponse) Succeeded() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Attempt is the diagnostic envelope of a single provider call.
type Attempt struct {
	Tag         string         `json:"credential"`
	Environment Environment    `json:"environment"`
	StatusCode  int            `json:"status"`
	Succeeded   bool           `json:"ok"`
	Keys        []string       `json:"keys"`
	Body        map[string]any `json:"body"`
	Error       string         `json:"error,omitempty"`
}

// TransactionResult collects every attempt made for one transaction lookup.
type TransactionResult struct {
	TransactionID string
	Attempts      []Attempt
	Out           map[string]any
}

// Succeeded reports whether any attempt succeeded.
func (r *TransactionResult) Succeeded() bool {
	for _, a := range r.Attempts {
		if a.Succeeded {
			return true
		}
	}
	return false
}

// StatusCode is 200 when any attempt succeeded and 502 otherwise.
func (r *TransactionResult) StatusCode() int {
	if r.Succeeded() {
		return 200
	}
	return 502
}

// Primary returns the first attempt, or nil.
func (r *TransactionResult) Primary() *Attempt {
	return r.attempt(0)
}

// Secondary returns the second attempt, or nil when none was made.
func (r *TransactionResult) Secondary() *Attempt {
	return r.attempt(1)
}

func (r *TransactionResult) attempt(i int) *Attempt {
	if i < len(r.Attempts) {
		return &r.Attempts[i]
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
