package carrier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/fulfillment/pkg/carrier"
)

var (
	liveCred = carrier.Credential{Token: "live-token", Environment: carrier.EnvironmentProduction}
	testCred = carrier.Credential{Token: "test-token", Environment: carrier.EnvironmentTest}
)

func TestResolver_NoCredentials(t *testing.T) {
	resolver := carrier.NewResolver()

	for _, flow := range []carrier.FlowContext{{IsTestFlow: false}, {IsTestFlow: true}} {
		chain := resolver.Resolve(flow)
		assert.True(t, chain.Empty())
		_, ok := chain.Primary()
		assert.False(t, ok)
	}
	assert.False(t, resolver.Configured())
}

func TestResolver_EmptyTokenIsUnconfigured(t *testing.T) {
	resolver := carrier.NewResolver(carrier.Credential{Token: "  ", Environment: carrier.EnvironmentProduction})
	assert.True(t, resolver.Resolve(carrier.FlowContext{}).Empty())
}

func TestResolver_SingleCredentialNeverHasSecondary(t *testing.T) {
	tests := []struct {
		name string
		cred carrier.Credential
	}{
		{"production only", liveCred},
		{"test only", testCred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := carrier.NewResolver(tt.cred)
			for _, flow := range []carrier.FlowContext{{IsTestFlow: false}, {IsTestFlow: true}} {
				chain := resolver.Resolve(flow)

				primary, ok := chain.Primary()
				require.True(t, ok)
				assert.Equal(t, tt.cred, primary)

				_, ok = chain.Secondary()
				assert.False(t, ok)
			}
		})
	}
}

func TestResolver_TestFlowPrefersTestCredential(t *testing.T) {
	resolver := carrier.NewResolver(liveCred, testCred)

	chain := resolver.Resolve(carrier.FlowContext{IsTestFlow: true})
	primary, _ := chain.Primary()
	secondary, ok := chain.Secondary()

	assert.Equal(t, testCred, primary)
	require.True(t, ok)
	assert.Equal(t, liveCred, secondary)
}

func TestResolver_DefaultFlowPrefersProduction(t *testing.T) {
	resolver := carrier.NewResolver(testCred, liveCred)

	chain := resolver.Resolve(carrier.FlowContext{})
	primary, _ := chain.Primary()
	secondary, ok := chain.Secondary()

	assert.Equal(t, liveCred, primary)
	require.True(t, ok)
	assert.Equal(t, testCred, secondary)
}

func TestResolver_SecondaryIsNeverPrimary(t *testing.T) {
	resolver := carrier.NewResolver(liveCred, testCred)

	for _, flow := range []carrier.FlowContext{{IsTestFlow: false}, {IsTestFlow: true}} {
		chain := resolver.Resolve(flow)
		primary, _ := chain.Primary()
		secondary, ok := chain.Secondary()
		require.True(t, ok)
		assert.NotEqual(t, primary, secondary)
		assert.Len(t, chain, 2)
	}
}

func TestResolver_SameTokenInBothEnvironments(t *testing.T) {
	resolver := carrier.NewResolver(
		carrier.Credential{Token: "shared", Environment: carrier.EnvironmentProduction},
		carrier.Credential{Token: "shared", Environment: carrier.EnvironmentTest},
	)

	chain := resolver.Resolve(carrier.FlowContext{IsTestFlow: true})
	assert.Len(t, chain, 1)
	_, ok := chain.Secondary()
	assert.False(t, ok)
}

func TestCredential_StringRedactsToken(t *testing.T) {
	assert.NotContains(t, liveCred.String(), "live-token")
}

func TestTag(t *testing.T) {
	assert.Equal(t, "primary", carrier.Tag(0))
	assert.Equal(t, "secondary", carrier.Tag(1))
	assert.Equal(t, "fallback-2", carrier.Tag(2))
}
