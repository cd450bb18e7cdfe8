package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saylekxd/nightApp/internal/config"
	"github.com/saylekxd/nightApp/internal/handler"
	"github.com/saylekxd/nightApp/internal/middleware"
	"github.com/saylekxd/nightApp/internal/repository"
	"github.com/saylekxd/nightApp/internal/service"
	"github.com/saylekxd/nightApp/internal/validator"
	"github.com/saylekxd/nightApp/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, database.PoolConfig{
		DSN:        cfg.DB.DSN(),
		MaxRetries: cfg.DB.ConnectRetries,
		Backoff:    cfg.DB.RetryBackoff,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Apply schema migrations before serving traffic
	if err := database.Migrate(pool); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Night Loyalty API",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator with custom rules
	validate := validator.New()

	// Repositories
	memberRepo := repository.NewMemberRepository(pool)
	passRepo := repository.NewPassCodeRepository(pool)
	rewardRepo := repository.NewRewardRepository(pool)
	redemptionRepo := repository.NewRedemptionRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	visitRepo := repository.NewVisitRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)
	eventRepo := repository.NewEventRepository(pool)

	// Services (layered architecture)
	authService := service.NewAuthService(memberRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	profileService := service.NewProfileService(memberRepo, visitRepo, redemptionRepo, transactionRepo)
	passService := service.NewPassService(pool, passRepo, cfg.Loyalty.PassTTL)
	redemptionService := service.NewRedemptionService(pool, memberRepo, rewardRepo, redemptionRepo, transactionRepo, cfg.Loyalty.RedemptionTTL)
	scanService := service.NewScanService(pool, memberRepo, passRepo, redemptionRepo, activityRepo, visitRepo, transactionRepo)
	statsService := service.NewStatsService(visitRepo, redemptionRepo, cfg.Loyalty.VenueCapacity)
	eventService := service.NewEventService(eventRepo)

	// Handlers
	healthHandler := handler.NewHealthHandler(pool)
	authHandler := handler.NewAuthHandler(authService, validate)
	profileHandler := handler.NewProfileHandler(profileService, validate)
	passHandler := handler.NewPassHandler(passService)
	rewardHandler := handler.NewRewardHandler(redemptionService, validate)
	scanHandler := handler.NewScanHandler(scanService, validate)
	statsHandler := handler.NewStatsHandler(statsService)
	eventHandler := handler.NewEventHandler(eventService, validate)

	app.Get("/health", healthHandler.Check)

	// Public routes
	app.Post("/api/auth/signup", authHandler.SignUp)
	app.Post("/api/auth/signin", authHandler.SignIn)

	// Authenticated member routes
	api := app.Group("/api", middleware.RequireAuth(authService, memberRepo))
	api.Get("/profile", profileHandler.Get)
	api.Patch("/profile", profileHandler.Update)
	api.Get("/profile/stats", profileHandler.Stats)
	api.Get("/profile/transactions", profileHandler.Transactions)
	api.Get("/profile/visits", profileHandler.Visits)
	api.Get("/pass", passHandler.Issue)
	api.Get("/rewards", rewardHandler.List)
	api.Post("/rewards/redeem", rewardHandler.Redeem)
	api.Get("/redemptions", rewardHandler.ListRedemptions)
	api.Get("/redemptions/:id", rewardHandler.GetRedemption)
	api.Get("/events", eventHandler.Upcoming)

	// Admin routes
	admin := api.Group("/admin", middleware.RequireAdmin)
	admin.Post("/scan/validate", scanHandler.Validate)
	admin.Post("/scan/accept", scanHandler.Accept)
	admin.Get("/activities", scanHandler.Activities)
	admin.Get("/stats", statsHandler.Daily)
	admin.Get("/events", eventHandler.ListAll)
	admin.Post("/events", eventHandler.Create)
	admin.Patch("/events/:id", eventHandler.Update)
	admin.Delete("/events/:id", eventHandler.Delete)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
