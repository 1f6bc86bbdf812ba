package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/stellartravel/itinerary-service/config"
	"github.com/stellartravel/itinerary-service/internal/aiplanner"
	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/database"
	"github.com/stellartravel/itinerary-service/internal/handlers"
	"github.com/stellartravel/itinerary-service/internal/middleware"
	"github.com/stellartravel/itinerary-service/internal/telemetry"
	"github.com/stellartravel/itinerary-service/internal/trips"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting itinerary service")

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	var catalogStore catalog.Store
	var privateTrips, publicTrips trips.Store

	dbURL := config.GetDatabaseURL()
	if dbURL != "" {
		if err := database.Connect(
			ctx,
			dbURL,
			cfg.Database.MaxConnections,
			cfg.Database.MinConnections,
			cfg.Database.MaxConnLifetime,
			cfg.Database.MaxConnIdleTime,
		); err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.Close()

		if err := database.EnsureSchema(ctx, database.Pool()); err != nil {
			logger.Fatal().Err(err).Msg("Failed to apply database schema")
		}

		catalogStore = database.NewCatalogStore(database.Pool())
		privateTrips = database.NewTripStore(database.Pool(), trips.ScopePrivate)
		publicTrips = database.NewTripStore(database.Pool(), trips.ScopePublic)
		logger.Info().Msg("Database connected")
	} else {
		// No database configured: run fully in memory. Useful for
		// local development and demos; nothing survives a restart.
		catalogStore = catalog.NewMemoryStore()
		privateTrips = trips.NewMemoryStore()
		publicTrips = trips.NewMemoryStore()
		logger.Warn().Msg("DATABASE_URL not set, using in-memory stores")
	}

	var generator handlers.Generator
	if cfg.AI.BaseURL != "" && cfg.AI.APIKey != "" {
		generator = aiplanner.NewClient(cfg.AI)
		logger.Info().Str("model", cfg.AI.Model).Msg("Generation backend configured")
	}

	api := handlers.New(catalogStore, trips.NewService(privateTrips, publicTrips), generator)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuth(cfg.Auth.InternalAPIKey))
	internal.Use(middleware.ServiceRateLimit(50, 100))
	{
		internal.GET("/health", handlers.HealthCheck)
		api.Register(internal)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "itinerary-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
