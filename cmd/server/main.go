// Package main provides the entry point for the publication graph service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spacebio/publication-graph-service/internal/cluster"
	"github.com/spacebio/publication-graph-service/internal/config"
	"github.com/spacebio/publication-graph-service/internal/docstore"
	"github.com/spacebio/publication-graph-service/internal/extract"
	"github.com/spacebio/publication-graph-service/internal/graph"
	"github.com/spacebio/publication-graph-service/internal/observability"
	"github.com/spacebio/publication-graph-service/internal/query"
	httpserver "github.com/spacebio/publication-graph-service/internal/server/http"
)

const metricsNamespace = "pubgraph"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("publication-graph-service starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(metricsNamespace)

	// Wire the build pipeline: document store, extractor, cluster engine,
	// builder, coordinator.
	store := docstore.NewStore(cfg.Cache.Dir, logger)
	clusterEngine := cluster.NewEngine(cluster.Config{
		MinSharedKeywords: cfg.Cluster.MinSharedKeywords,
		MaxThemes:         cfg.Cluster.MaxThemes,
	})
	builder := graph.NewBuilder(graph.Config{
		SimilarityEdges: cfg.Graph.SimilarityEdges,
	}, extract.New(), clusterEngine, logger)
	coordinator := graph.NewCoordinator(store, builder, metrics, logger)

	// First build before serving. A missing cache directory is fatal here;
	// later rebuild failures keep the last good snapshot.
	generation, err := coordinator.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("initial graph build: %w", err)
	}
	logger.Info().Str("generation", generation.String()).Msg("initial graph snapshot published")

	queryEngine := query.NewEngine(query.Config{
		TopKeywords:   cfg.Trends.TopKeywords,
		SnippetWindow: cfg.Search.SnippetWindow,
		MaxSnippets:   cfg.Search.MaxSnippets,
	}, coordinator, metrics, logger)

	httpCfg := httpserver.Config{
		Address:               cfg.Server.HTTPAddress(),
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           2 * time.Minute,
		ShutdownTimeout:       cfg.Server.ShutdownTimeout,
		RebuildRatePerMinute:  cfg.Rebuild.RatePerMinute,
		RebuildBurst:          cfg.Rebuild.Burst,
		DefaultTimeframeYears: cfg.Trends.DefaultTimeframeYears,
	}
	httpSrv := httpserver.NewServer(httpCfg, queryEngine, coordinator, metrics, logger)

	// Set up Prometheus metrics handler on a separate port if configured.
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress(),
			Handler:      metricsMux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}
	}

	// Channel to collect server errors.
	errCh := make(chan error, 2)

	// Start HTTP API server in background.
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Start metrics server if configured.
	if metricsServer != nil {
		go func() {
			logger.Info().
				Str("address", metricsServer.Addr).
				Msg("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	readyLog := logger.Info().Str("http_address", httpCfg.Address)
	if metricsServer != nil {
		readyLog = readyLog.Str("metrics_address", metricsServer.Addr)
	}
	readyLog.Msg("publication-graph-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down publication-graph-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown error")
		}
	}

	logger.Info().Msg("publication-graph-service shutdown complete")
	return nil
}
