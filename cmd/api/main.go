package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/promodesk/promodesk_api/internal/cache"
	"github.com/promodesk/promodesk_api/internal/config"
	"github.com/promodesk/promodesk_api/internal/database"
	"github.com/promodesk/promodesk_api/internal/docstore"
	"github.com/promodesk/promodesk_api/internal/handler"
	"github.com/promodesk/promodesk_api/internal/middleware"
	"github.com/promodesk/promodesk_api/internal/repository"
	"github.com/promodesk/promodesk_api/internal/service"
	"github.com/promodesk/promodesk_api/internal/sse"
	"github.com/promodesk/promodesk_api/internal/utils"
	"github.com/promodesk/promodesk_api/internal/worker"
)

// main is the application entrypoint for the PromoDesk API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting promodesk api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Store-change plumbing: every mutation publishes an invalidation and
	// every connected client gets an SSE event telling it to reload.
	invalidator := cache.NewInvalidator(redisClient)
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)
	invalidator.OnChange(func(store string) {
		notifier.NotifyStoreChanged(store)
	})

	// 5. Initialize repositories
	store := docstore.NewPostgresStore(db)
	campaignRepo := repository.NewCampaignRepository(store, invalidator)
	srpRepo := repository.NewSrpRepository(store, invalidator)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// 6. Initialize services
	campaignSvc := service.NewCampaignService(campaignRepo, attachmentRepo)
	srpSvc := service.NewSrpService(srpRepo, invalidator)

	scanSvc, err := service.NewScanService(&cfg.Scanner)
	if err != nil {
		log.Warn().Err(err).Msg("Scan service initialization failed - trade letter extraction will be disabled")
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisClient),
		Auth:     handler.NewAuthHandler(),
		Campaign: handler.NewCampaignHandler(campaignSvc),
		Srp:      handler.NewSrpHandler(srpSvc),
		SSE:      handler.NewSSEHandler(hub),
	}
	if scanSvc != nil {
		handlers.Scan = handler.NewScanHandler(scanSvc)
	}

	// 8. Initialize middleware
	sessionMw := middleware.NewSessionMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, sessionMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start invalidation listener and workers
	go invalidator.Start(ctx)
	go worker.NewAttachmentJanitor(campaignRepo, attachmentRepo, cfg.Worker.JanitorInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Campaign *handler.CampaignHandler
	Srp      *handler.SrpHandler
	Scan     *handler.ScanHandler
	SSE      *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, sessionMw *middleware.SessionMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.POST("/v1/auth/login", handlers.Auth.Login)

	// SSE authenticates via query param, not header middleware.
	router.GET("/v1/events", handlers.SSE.Stream)

	campaigns := router.Group("/v1/campaigns")
	campaigns.Use(sessionMw.Handle())
	{
		campaigns.GET("", handlers.Campaign.List)
		campaigns.POST("", handlers.Campaign.Create)
		campaigns.GET("/export", handlers.Campaign.Export)
		campaigns.POST("/transitions", handlers.Campaign.BulkTransition)
		campaigns.GET("/:id", handlers.Campaign.Get)
		campaigns.PUT("/:id", handlers.Campaign.Update)
		campaigns.DELETE("/:id", handlers.Campaign.Delete)
		campaigns.POST("/:id/transition", handlers.Campaign.Transition)
		campaigns.POST("/:id/trade-letter", handlers.Campaign.UploadTradeLetter)
		campaigns.GET("/:id/trade-letter", handlers.Campaign.DownloadTradeLetter)
	}

	srp := router.Group("/v1/srp")
	srp.Use(sessionMw.Handle())
	{
		srp.GET("/current", handlers.Srp.Current)
		srp.GET("/history", handlers.Srp.History)
		srp.GET("/export", handlers.Srp.Export)
		srp.POST("/preview", handlers.Srp.Preview)
		srp.POST("/versions", handlers.Srp.Commit)
		srp.GET("/versions/:version/download", handlers.Srp.Download)
		srp.PUT("/rows/:id", handlers.Srp.EditRow)
	}

	if handlers.Scan != nil {
		router.POST("/v1/scan/trade-letter", sessionMw.Handle(), handlers.Scan.ScanTradeLetter)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
