package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tournevent/fulfillment/internal/admin"
	"github.com/tournevent/fulfillment/internal/authz"
	"github.com/tournevent/fulfillment/internal/catalog"
	"github.com/tournevent/fulfillment/internal/config"
	"github.com/tournevent/fulfillment/internal/server"
	"github.com/tournevent/fulfillment/internal/store"
	"github.com/tournevent/fulfillment/internal/telemetry"
	"github.com/tournevent/fulfillment/pkg/carrier"
	"github.com/tournevent/fulfillment/pkg/carrier/shippo"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(cfg *config.Config) (*otelzap.Logger, error) {
	return telemetry.NewLogger(telemetry.LogConfig{
		Level:       cfg.LogLevel,
		Development: cfg.AppEnv == "development",
		Service:     cfg.ServiceName,
		Version:     cfg.Version,
	})
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.Attributes())
	return shutdown, err
}

func initStore(ctx context.Context, cfg *config.Config) (*store.Postgres, error) {
	return store.Connect(ctx, cfg.PostgresDSN)
}

type app struct {
	deps     server.Deps
	metrics  *telemetry.Metrics
	registry *prometheus.Registry
}

func initApp(cfg *config.Config, db *store.Postgres, logger *otelzap.Logger) *app {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)

	provider := shippo.New(shippo.Config{
		BaseURL: cfg.CarrierBaseURL,
		Timeout: cfg.CarrierTimeout,
		UseMock: cfg.CarrierUseMock,
	}, logger, otel.Tracer(cfg.ServiceName))

	resolver := carrier.NewResolver(cfg.Credentials()...)
	if !resolver.Configured() {
		logger.Warn("No carrier credential configured; carrier routes will fail")
	}

	repo := store.NewRepository(db.DB)

	identity := authz.NewHTTPIdentityProvider(authz.HTTPIdentityProviderConfig{
		BaseURL:       cfg.AuthBaseURL,
		APIKey:        cfg.AuthAPIKey,
		SessionCookie: cfg.AuthSessionCookie,
		Timeout:       cfg.AuthTimeout,
	})
	if cfg.AuthBaseURL == "" {
		logger.Warn("AUTH_BASE_URL is empty; admin routes will deny every caller")
	}

	deps := server.Deps{
		Validator: carrier.NewValidator(provider, resolver, logger),
		Retriever: carrier.NewRetriever(provider, resolver, logger).WithObserver(metrics),
		Catalog:   catalog.New(cfg.IsProduction(), provider, resolver, repo, logger),
		Admin:     admin.NewService(repo),
		Gate:      authz.NewGate(identity, repo, repo, logger).WithObserver(metrics),
		Health:    db,
	}

	logger.Debug("Carrier credentials resolved",
		zap.Strings("default_chain", resolver.Resolve(carrier.FlowContext{}).Environments()),
		zap.Strings("test_flow_chain", resolver.Resolve(carrier.FlowContext{IsTestFlow: true}).Environments()),
	)

	return &app{deps: deps, metrics: metrics, registry: registry}
}
