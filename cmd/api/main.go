package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/summittrails/pricing-api/docs"
	"github.com/summittrails/pricing-api/internal/auth"
	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/database"
	"github.com/summittrails/pricing-api/internal/http/handler"
	"github.com/summittrails/pricing-api/internal/http/middleware"
	"github.com/summittrails/pricing-api/internal/http/router"
	"github.com/summittrails/pricing-api/internal/jobs"
	"github.com/summittrails/pricing-api/internal/logger"
	"github.com/summittrails/pricing-api/internal/repository"
	"github.com/summittrails/pricing-api/internal/service"
	"github.com/summittrails/pricing-api/internal/storage"
	"github.com/summittrails/pricing-api/internal/warehouse"
	"go.uber.org/zap"
)

// @title Summit Trails Pricing API
// @version 1.0
// @description Pricing and quoting backend for Himalayan travel services: rule-based price simulation, channel-aware trip quotes and wholesale margin management.

// @contact.name API Support
// @contact.email support@summittrails.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "pricing-staging.summittrails.com"
	case "production":
		docs.SwaggerInfo.Host = "pricing.summittrails.com"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.App.Environment == "development" || cfg.App.Environment == "local" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
	}

	// Quote document archive
	quoteArchive, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Demand analytics warehouse (optional, read-only). Pricing degrades
	// to local metrics when it is missing.
	var warehouseClient *warehouse.Client
	if cfg.Warehouse.Enabled {
		warehouseClient, err = warehouse.NewClient(&cfg.Warehouse, log)
		if err != nil {
			log.Warn("Warehouse connection failed, continuing without it",
				zap.Error(err),
			)
		} else if warehouseClient != nil {
			log.Info("Warehouse connected successfully")
		}
	} else {
		log.Info("Warehouse not configured, skipping")
	}

	// Repositories
	rateRepo := repository.NewRateRepository(db)
	ruleRepo := repository.NewPricingRuleRepository(db)
	overrideRepo := repository.NewMarginOverrideRepository(db)
	agencyRepo := repository.NewAgencyRepository(db)
	demandRepo := repository.NewDemandMetricRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	pricingService := service.NewPricingService(ruleRepo, demandRepo, &cfg.Pricing, log)
	if warehouseClient != nil {
		pricingService.SetDemandSource(warehouseClient)
	}
	quoteService := service.NewQuoteService(rateRepo, overrideRepo, demandRepo, pricingService, &cfg.Pricing, log)
	if quoteArchive != nil {
		quoteService.SetArchive(quoteArchive)
	}
	rateService := service.NewRateService(rateRepo, log)
	ruleService := service.NewRuleService(ruleRepo, log)
	agencyService := service.NewAgencyService(agencyRepo, log)
	marginService := service.NewMarginService(overrideRepo, agencyRepo, cfg, log)
	demandService := service.NewDemandService(demandRepo, log)
	auditService := service.NewAuditLogService(auditRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(auditService, nil, log)

	// Handlers
	pricingHandler := handler.NewPricingHandler(pricingService, quoteService, log)
	rateHandler := handler.NewRateHandler(rateService, log)
	ruleHandler := handler.NewRuleHandler(ruleService, log)
	agencyHandler := handler.NewAgencyHandler(agencyService, log)
	marginHandler := handler.NewMarginHandler(marginService, log)
	demandHandler := handler.NewDemandHandler(demandService, log)
	auditHandler := handler.NewAuditHandler(auditService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		warehouseClient,
		authMiddleware,
		rateLimiter,
		auditMiddleware,
		pricingHandler,
		rateHandler,
		ruleHandler,
		agencyHandler,
		marginHandler,
		demandHandler,
		auditHandler,
	)

	// Nightly demand aggregation folds usage counters into demand metrics
	scheduler := jobs.NewScheduler(log)
	aggregationJob := jobs.NewDemandAggregationJob(demandService, log, 5*time.Minute)
	if err := scheduler.AddJob(jobs.DemandAggregationJobName, "0 30 2 * * *", aggregationJob.Run); err != nil {
		log.Error("Failed to register demand aggregation job", zap.Error(err))
	} else {
		scheduler.Start()
		log.Info("Scheduler started with demand aggregation job")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if warehouseClient != nil {
			if err := warehouseClient.Close(); err != nil {
				log.Warn("Error closing warehouse connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
