package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eolos-vlc/eolos-backend/internal/api"
	"github.com/eolos-vlc/eolos-backend/internal/auth"
	"github.com/eolos-vlc/eolos-backend/internal/config"
	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/events"
	"github.com/eolos-vlc/eolos-backend/internal/logging"
	"github.com/eolos-vlc/eolos-backend/internal/metrics"
	"github.com/eolos-vlc/eolos-backend/internal/middleware"
	"github.com/eolos-vlc/eolos-backend/internal/repository"
	"github.com/eolos-vlc/eolos-backend/internal/service"
	"github.com/eolos-vlc/eolos-backend/internal/spatial"
)

func main() {
	seed := flag.Bool("seed", false, "load demo stations, bicycles and a demo rider if the database is empty")
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, *seed, *migrateOnly); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, seed, migrateOnly bool) error {
	if cfg.Database.Driver == database.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.Open(ctx, database.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected", zap.String("driver", cfg.Database.Driver))

	if err := database.NewMigrationManager(db, logger).RunMigrations(ctx); err != nil {
		return err
	}
	if migrateOnly {
		return nil
	}
	if seed {
		if err := repository.Seed(ctx, db); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		logger.Info("demo data loaded")
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.URL != "" {
		nats, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, collector, logger)
		if err != nil {
			return err
		}
		defer nats.Close()
		publisher = nats
		logger.Info("publishing events to nats", zap.String("url", cfg.NATS.URL))
	}

	tx := repository.NewTxManager(db)
	trips := service.NewTripService(tx,
		spatial.NewMatcher(cfg.Geofence.ThresholdMeters, cfg.Geofence.EarthRadiusKm),
		service.WithLogger(logger.Named("trips")),
		service.WithPublisher(publisher),
		service.WithMetrics(collector),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	defer limiter.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := api.SetupRouter(api.Dependencies{
		Logger:       logger,
		DB:           db,
		Verifier:     auth.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer),
		Metrics:      collector,
		MetricsPath:  cfg.Metrics.Path,
		RateLimiter:  limiter,
		Trips:        trips,
		AirQuality:   service.NewAirQualityService(tx, logger.Named("air_quality")),
		SensorStatus: service.NewSensorStatusService(tx, logger.Named("sensor_status")),
		Incidents:    service.NewIncidentService(tx, publisher, logger.Named("incidents")),
		Profiles:     service.NewProfileService(tx, logger.Named("profile")),
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited properly")
	return nil
}
