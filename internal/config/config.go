// Package config loads the gateway configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/fulfillment/pkg/carrier"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	AppEnv   string `envconfig:"APP_ENV" default:"development"`

	// Carrier API (Shippo)
	CarrierLiveToken string        `envconfig:"CARRIER_LIVE_TOKEN"`
	CarrierTestToken string        `envconfig:"CARRIER_TEST_TOKEN"`
	CarrierBaseURL   string        `envconfig:"CARRIER_BASE_URL" default:"https://api.goshippo.com"`
	CarrierTimeout   time.Duration `envconfig:"CARRIER_TIMEOUT" default:"15s"`
	CarrierUseMock   bool          `envconfig:"CARRIER_USE_MOCK" default:"false"`

	// Requests whose Referer path contains this marker are test flows.
	TestFlowReferrerMarker string `envconfig:"TEST_FLOW_REFERRER_MARKER" default:"/admin"`

	// Identity service
	AuthBaseURL       string        `envconfig:"AUTH_BASE_URL"`
	AuthAPIKey        string        `envconfig:"AUTH_API_KEY"`
	AuthSessionCookie string        `envconfig:"AUTH_SESSION_COOKIE" default:"sb-access-token"`
	AuthTimeout       time.Duration `envconfig:"AUTH_TIMEOUT" default:"5s"`

	// Store
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"fulfillment-gateway"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether APP_ENV names production.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.AppEnv)) {
	case "production", "prod":
		return true
	}
	return false
}

// Credentials returns the configured carrier credentials, live first.
// Empty tokens are included and dropped by carrier.NewResolver.
func (c *Config) Credentials() []carrier.Credential {
	return []carrier.Credential{
		{Token: c.CarrierLiveToken, Environment: carrier.EnvironmentProduction},
		{Token: c.CarrierTestToken, Environment: carrier.EnvironmentTest},
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("deployment.environment", c.AppEnv),
		attribute.Bool("carrier.live_configured", strings.TrimSpace(c.CarrierLiveToken) != ""),
		attribute.Bool("carrier.test_configured", strings.TrimSpace(c.CarrierTestToken) != ""),
		attribute.Bool("carrier.mock", c.CarrierUseMock),
	}
}

// Redacted returns a copy safe to print, with secrets masked.
func (c *Config) Redacted() Config {
	out := *c
	out.CarrierLiveToken = mask(out.CarrierLiveToken)
	out.CarrierTestToken = mask(out.CarrierTestToken)
	out.AuthAPIKey = mask(out.AuthAPIKey)
	out.PostgresDSN = mask(out.PostgresDSN)
	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "[redacted]"
}
