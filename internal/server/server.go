// Package server exposes the fulfillment gateway over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/tournevent/fulfillment/internal/admin"
	"github.com/tournevent/fulfillment/internal/authz"
	"github.com/tournevent/fulfillment/internal/catalog"
	_ "github.com/tournevent/fulfillment/internal/server/docs"
	"github.com/tournevent/fulfillment/internal/telemetry"
	"github.com/tournevent/fulfillment/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Deps are the components the routes are served by.
type Deps struct {
	Validator *carrier.Validator
	Retriever *carrier.Retriever
	Catalog   *catalog.Catalog
	Admin     *admin.Service
	Gate      *authz.Gate
	Health    HealthChecker // optional
}

// Config holds server configuration.
type Config struct {
	Port int
	// Referer path marker that flags a request as a test flow.
	TestFlowMarker string
}

// Server is the HTTP server for the fulfillment gateway.
type Server struct {
	port           int
	testFlowMarker string
	deps           Deps
	logger         *otelzap.Logger
	metrics        *telemetry.Metrics
	gatherer       prometheus.Gatherer
	tracer         trace.Tracer
}

// New creates a new server instance. Metrics are exposed from gatherer.
func New(cfg Config, deps Deps, logger *otelzap.Logger, metrics *telemetry.Metrics, gatherer prometheus.Gatherer) *Server {
	return &Server{
		port:           cfg.Port,
		testFlowMarker: cfg.TestFlowMarker,
		deps:           deps,
		logger:         logger,
		metrics:        metrics,
		gatherer:       gatherer,
		tracer:         otel.Tracer("github.com/tournevent/fulfillment/internal/server"),
	}
}

// Handler returns the root handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	mux.HandleFunc("POST /api/shipping/validate-address", s.handleValidateAddress)
	mux.HandleFunc("GET /api/shipping/carriers", s.handleListCarriers)
	mux.HandleFunc("GET /api/shipping/packages", s.handleListPackages)
	mux.HandleFunc("GET /api/admin/shipping/transactions/{transactionId}", s.handleGetTransaction)
	mux.HandleFunc("GET /api/admin/shipping/transactions/{$}", s.handleGetTransaction)

	gate := s.deps.Gate.Require
	mux.Handle("GET /api/admin/orders", gate(http.HandlerFunc(s.handleRecentOrders)))
	mux.Handle("GET /api/admin/orders/{$}", gate(http.HandlerFunc(s.handleOrderDetail)))
	mux.Handle("GET /api/admin/orders/{orderId}", gate(http.HandlerFunc(s.handleOrderDetail)))
	mux.Handle("GET /api/admin/orders/{orderId}/shipments", gate(http.HandlerFunc(s.handleOrderShipments)))

	return s.requestID(s.instrument(mux))
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Health.Ping(ctx); err != nil {
			s.logger.Ctx(r.Context()).Warn("Health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
