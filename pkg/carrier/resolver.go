package carrier

import (
	"fmt"
	"strings"
)

// Chain is an ordered list of distinct credentials to try, best first.
type Chain []Credential

// Empty reports whether no credential is available.
func (c Chain) Empty() bool {
	return len(c) == 0
}

// Primary returns the credential to try first.
func (c Chain) Primary() (Credential, bool) {
	if len(c) == 0 {
		return Credential{}, false
	}
	return c[0], true
}

// Secondary returns the fallback credential, if any.
func (c Chain) Secondary() (Credential, bool) {
	if len(c) < 2 {
		return Credential{}, false
	}
	return c[1], true
}

// Environments lists the chain's environments in order.
func (c Chain) Environments() []string {
	envs := make([]string, len(c))
	for i, cred := range c {
		envs[i] = string(cred.Environment)
	}
	return envs
}

// Tag names the position of a credential in a chain.
func Tag(i int) string {
	switch i {
	case 0:
		return "primary"
	case 1:
		return "secondary"
	default:
		return fmt.Sprintf("fallback-%d", i)
	}
}

// Resolver selects which configured credentials serve a request.
// It is built once from process configuration and never mutated.
type Resolver struct {
	byEnv map[Environment]Credential
}

// NewResolver creates a resolver from the configured credentials.
// Credentials with an empty token are treated as unconfigured, and only the
// first credential per environment is kept.
func NewResolver(creds ...Credential) *Resolver {
	r := &Resolver{byEnv: make(map[Environment]Credential, len(creds))}
	for _, c := range creds {
		c.Token = strings.TrimSpace(c.Token)
		if c.Token == "" {
			continue
		}
		if _, exists := r.byEnv[c.Environment]; exists {
			continue
		}
		r.byEnv[c.Environment] = c
	}
	return r
}

// Configured reports whether at least one credential exists.
func (r *Resolver) Configured() bool {
	return len(r.byEnv) > 0
}

// Resolve returns the ordered credential chain for a request.
// Test flows prefer the test credential and everything else prefers
// production; the other environment, when configured with a different token,
// follows as fallback.
func (r *Resolver) Resolve(flow FlowContext) Chain {
	order := []Environment{EnvironmentProduction, EnvironmentTest}
	if flow.IsTestFlow {
		order = []Environment{EnvironmentTest, EnvironmentProduction}
	}

	chain := make(Chain, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, env := range order {
		cred, ok := r.byEnv[env]
		if !ok || seen[cred.Token] {
			continue
		}
		seen[cred.Token] = true
		chain = append(chain, cred)
	}
	return chain
}
