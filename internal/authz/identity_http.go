package authz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPIdentityProviderConfig configures the identity service client.
type HTTPIdentityProviderConfig struct {
	BaseURL       string
	APIKey        string
	SessionCookie string
	Timeout       time.Duration
}

// HTTPIdentityProvider resolves callers by forwarding their access token to
// the identity service's /user endpoint.
type HTTPIdentityProvider struct {
	baseURL       string
	apiKey        string
	sessionCookie string
	httpClient    *http.Client
}

// NewHTTPIdentityProvider creates an identity provider backed by HTTP.
func NewHTTPIdentityProvider(cfg HTTPIdentityProviderConfig) *HTTPIdentityProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &HTTPIdentityProvider{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		sessionCookie: cfg.SessionCookie,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// Identify implements IdentityProvider. Requests without a token, and
// tokens the identity service rejects, are anonymous.
func (p *HTTPIdentityProvider) Identify(ctx context.Context, r *http.Request) (*Identity, error) {
	token := p.accessToken(r)
	if token == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("identity service returned HTTP %d", resp.StatusCode)
	}

	var ident Identity
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&ident); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	if ident.ID == "" {
		return nil, nil
	}
	return &ident, nil
}

func (p *HTTPIdentityProvider) accessToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if p.sessionCookie != "" {
		if c, err := r.Cookie(p.sessionCookie); err == nil {
			return strings.TrimSpace(c.Value)
		}
	}
	return ""
}

var _ IdentityProvider = (*HTTPIdentityProvider)(nil)
