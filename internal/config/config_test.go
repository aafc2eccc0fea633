package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/fulfillment/internal/config"
	"github.com/tournevent/fulfillment/pkg/carrier"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CARRIER_LIVE_TOKEN", "")
	t.Setenv("APP_ENV", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/admin", cfg.TestFlowReferrerMarker)
	assert.Equal(t, 15*time.Second, cfg.CarrierTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("CARRIER_LIVE_TOKEN", "shippo_live_1")
	t.Setenv("CARRIER_TEST_TOKEN", "shippo_test_1")
	t.Setenv("CARRIER_TIMEOUT", "3s")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 3*time.Second, cfg.CarrierTimeout)
	assert.Equal(t, []carrier.Credential{
		{Token: "shippo_live_1", Environment: carrier.EnvironmentProduction},
		{Token: "shippo_test_1", Environment: carrier.EnvironmentTest},
	}, cfg.Credentials())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := config.Config{
		CarrierLiveToken: "shippo_live_secret",
		AuthAPIKey:       "anon",
		PostgresDSN:      "postgres://u:p@db/app",
		ServiceName:      "fulfillment-gateway",
	}

	r := cfg.Redacted()

	assert.Equal(t, "[redacted]", r.CarrierLiveToken)
	assert.Equal(t, "", r.CarrierTestToken)
	assert.Equal(t, "[redacted]", r.AuthAPIKey)
	assert.Equal(t, "[redacted]", r.PostgresDSN)
	assert.Equal(t, "fulfillment-gateway", r.ServiceName)
	assert.Equal(t, "shippo_live_secret", cfg.CarrierLiveToken)
}
