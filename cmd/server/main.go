package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/handlers"
	schemacache "github.com/regpulse/dataschema/internal/infrastructure/cache"
	"github.com/regpulse/dataschema/internal/infrastructure/config"
	"github.com/regpulse/dataschema/internal/infrastructure/database"
	"github.com/regpulse/dataschema/internal/infrastructure/logging"
	"github.com/regpulse/dataschema/internal/infrastructure/metrics"
	"github.com/regpulse/dataschema/internal/repositories"
	"github.com/regpulse/dataschema/internal/repositories/postgres"
	"github.com/regpulse/dataschema/internal/repositories/sqlite"
	"github.com/regpulse/dataschema/internal/rpc"
	"github.com/regpulse/dataschema/internal/services"
	"github.com/regpulse/dataschema/pkg/cache/memorycache"
)

const (
	defaultEnv      = "dev"
	shutdownTimeout = 30 * time.Second
)

// registry bundles the storage selected by DB_DRIVER
type registry struct {
	schemas  repositories.SchemaRepository
	apiKeys  repositories.APIKeyRepository
	postgres *database.Postgres // nil for sqlite
	close    func() error
}

func main() {
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	if err := config.InitConfig(env); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		logger.Close()
		os.Exit(1)
	}
}

func openRegistry(cfg *config.Config, log zerolog.Logger) (*registry, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.NewSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", db.Path).Msg("using sqlite registry")
		return &registry{
			schemas: sqlite.NewSQLiteSchemaRepository(db.DB),
			apiKeys: sqlite.NewSQLiteAPIKeyRepository(db.DB),
			close:   db.Close,
		}, nil
	default:
		pg, err := database.NewPostgres(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pg.RunMigrations(); err != nil {
			pg.Close()
			return nil, err
		}
		log.Info().
			Str("user", cfg.Database.User).
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Database).
			Msg("connected to database")
		return &registry{
			schemas:  postgres.NewPostgresSchemaRepository(pg.DB),
			apiKeys:  postgres.NewPostgresAPIKeyRepository(pg.DB),
			postgres: pg,
			close:    pg.Close,
		}, nil
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	log := logger.Component("server")

	reg, err := openRegistry(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := reg.close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	// Metrics
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exporter := metrics.NewPrometheusExporter(promReg)

	// Services
	schemaOpts := []services.SchemaServiceOption{
		services.WithSchemaLogger(logger.Component("schema")),
		services.WithSchemaMetrics(exporter),
	}
	if cfg.Cache.Enabled {
		schemaCache := memorycache.New(&memorycache.Config[*entities.Schema]{
			MaxSizeBytes:  cfg.Cache.MaxMemoryBytes,
			DefaultTTL:    time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
			EnableMetrics: true,
			// Parsed schemas are a few times larger than their text
			SizeOf: func(s *entities.Schema) int64 { return int64(len(s.DSL)) * 4 },
		})
		defer schemaCache.Close()
		exporter.ObserveCache("schema", schemaCache)
		schemaOpts = append(schemaOpts, services.WithSchemaCache(schemaCache, 0))
	}
	schemaService := services.NewSchemaService(reg.schemas, schemaOpts...)
	apiKeyService := services.NewAPIKeyService(reg.apiKeys, cfg.APIKey.ExpiresInDays,
		services.WithAPIKeyLogger(logger.Component("apikey")),
		services.WithAPIKeyMetrics(exporter),
		services.WithSchemaLifetimes(schemaService),
	)

	if cfg.APIKey.Bootstrap {
		key, created, err := apiKeyService.EnsureKey(context.Background(), entities.DefaultAppID)
		if err != nil {
			return fmt.Errorf("failed to bootstrap api key: %w", err)
		}
		if created {
			// The plaintext is never stored; this is the only place it appears
			log.Warn().Str("app", key.AppID).Str("key", key.Key).Time("expires_at", key.ExpiresAt).Msg("bootstrap api key created")
		}
	}

	// Cross-instance cache invalidation
	if reg.postgres != nil && cfg.Cache.Enabled {
		notifier := schemacache.NewChangeNotifier(reg.postgres.ConnectionString(), logger.Component("notifier"),
			func(change schemacache.SchemaChange) {
				schemaService.Invalidate(change.AppID, change.Operation == "DELETE")
			},
			schemaService.InvalidateAll,
		)
		if err := notifier.Start(); err != nil {
			return fmt.Errorf("failed to start schema change notifier: %w", err)
		}
		defer notifier.Stop()
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		metrics.UnaryServerInterceptor(exporter),
		handlers.APIKeyInterceptor(apiKeyService, logger.Component("auth")),
	))
	rpc.RegisterSchemaServiceServer(grpcServer, handlers.NewSchemaHandler(schemaService))
	rpc.RegisterAPIKeyServiceServer(grpcServer, handlers.NewAPIKeyHandler(apiKeyService))

	addr := net.JoinHostPort(cfg.Server.Host, fmt.Sprint(cfg.Server.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	metricsServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, fmt.Sprint(cfg.Server.MetricsPort)),
		Handler:           promhttp.HandlerFor(promReg, promhttp.HandlerOpts{Registry: promReg}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 2)
	go func() {
		log.Info().Str("addr", addr).Msg("gRPC server listening")
		if err := grpcServer.Serve(listener); err != nil {
			serverErrors <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go func() {
		log.Info().Str("addr", metricsServer.Addr).Msg("metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		grpcServer.Stop()
		_ = metricsServer.Close()
		return err
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		log.Info().Msg("gRPC server stopped gracefully")
	case <-shutdownCtx.Done():
		log.Warn().Msg("shutdown timeout exceeded, forcing stop")
		grpcServer.Stop()
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to stop metrics server")
	}

	log.Info().Msg("shutdown complete")
	return nil
}
