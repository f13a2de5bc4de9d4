// Package main is the entry point for the academic progression engine.
//
// The engine owns four concerns of the university registry:
//   - grade resolution and semester/cumulative GPA computation
//   - the faculty remarks policy (proceed / remain-in-semester / no-marks)
//   - multi-department clearance with an append-only audit trail
//   - auto-approval rules imported in bulk by department staff
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/registry-hub/progression-engine/config"
	"github.com/registry-hub/progression-engine/internal/application/command"
	"github.com/registry-hub/progression-engine/internal/application/query"
	"github.com/registry-hub/progression-engine/internal/domain/grading"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
	"github.com/registry-hub/progression-engine/internal/infrastructure/messaging"
	"github.com/registry-hub/progression-engine/internal/infrastructure/persistence/postgres"
	"github.com/registry-hub/progression-engine/internal/infrastructure/persistence/redis"
	"github.com/registry-hub/progression-engine/internal/observability"
	"github.com/registry-hub/progression-engine/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Observability.LogLevel))
	log.Info("starting progression engine",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// PostgreSQL
	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Database.URL
	pgCfg.MaxConns = int32(cfg.Database.MaxConns)
	pgCfg.MinConns = int32(cfg.Database.MinConns)
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	conn, err := postgres.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer conn.Close()
	log.Info("database connection established")

	if cfg.Database.MigrateOnStart {
		if err := conn.Migrate(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		log.Info("database schema is up to date")
	}

	// Redis is optional: without it remarks are recomputed on every read.
	var remarksCache query.RemarksCache
	if !cfg.Redis.Disabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("redis unavailable, remarks caching disabled", logger.Err(err))
		} else {
			defer cache.Close()
			remarksCache = redis.NewRemarksCache(cache)
			log.Info("redis connection established")
		}
	}

	metrics := observability.New()

	// Event bus: subscribers run out of band, publish is done by the
	// transport layer with the events returned from command handlers.
	busCfg := messaging.DefaultEventBusConfig()
	busCfg.Logger = log
	events := messaging.NewEventBus(busCfg)
	defer events.Close()
	if err := events.SubscribeAll(func(event shared.Event) error {
		log.Debug("domain event published",
			logger.String("event_type", string(event.EventType())),
			logger.String("aggregate_id", event.AggregateID()))
		return nil
	}); err != nil {
		return fmt.Errorf("subscribe event logger: %w", err)
	}

	// Repositories
	clearanceRepo := postgres.NewClearanceRepository(conn)
	exemptionRepo := postgres.NewExemptionRepository(conn)
	termDirectory := postgres.NewTermDirectory(conn)
	enrollmentRepo := postgres.NewEnrollmentRepository(conn)
	moduleSource := postgres.NewModuleSource(conn)

	gradeTable := grading.Default()

	// Application handlers
	engine := &Engine{
		CreateClearance:  command.NewCreateClearanceHandler(clearanceRepo, exemptionRepo, moduleSource, metrics, log),
		DecideClearance:  command.NewDecideClearanceHandler(clearanceRepo, moduleSource, metrics, log),
		ImportExemptions: command.NewImportExemptionsHandler(exemptionRepo, termDirectory, metrics, log),
		AcademicRemarks:  query.NewGetAcademicRemarksHandler(enrollmentRepo, gradeTable, remarksCache, metrics, log),
		ProgressionTrend: query.NewGetProgressionTrendHandler(enrollmentRepo, gradeTable, log),
		ClearanceStatus:  query.NewGetClearanceStatusHandler(clearanceRepo, log),
		NextPending:      query.NewNextPendingHandler(clearanceRepo, log),
		ScoreApplicant:   query.NewScoreApplicantHandler(gradeTable, log),
		Events:           events,
	}
	_ = engine // handlers are exposed through the transport layer of the host service

	var metricsSrv *http.Server
	if cfg.Observability.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Observability.MetricsPort),
			Handler: mux,
		}
		go func() {
			log.Info("metrics server listening", logger.Int("port", cfg.Observability.MetricsPort))
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server failed", logger.Err(err))
			}
		}()
	}

	log.Info("progression engine is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	if metricsSrv != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancelShutdown()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown failed", logger.Err(err))
		}
	}

	log.Info("shutdown completed")
	return nil
}

// Engine bundles the application handlers the registry exposes.
type Engine struct {
	CreateClearance  *command.CreateClearanceHandler
	DecideClearance  *command.DecideClearanceHandler
	ImportExemptions *command.ImportExemptionsHandler

	AcademicRemarks  *query.GetAcademicRemarksHandler
	ProgressionTrend *query.GetProgressionTrendHandler
	ClearanceStatus  *query.GetClearanceStatusHandler
	NextPending      *query.NextPendingHandler
	ScoreApplicant   *query.ScoreApplicantHandler

	Events *messaging.EventBus
}
