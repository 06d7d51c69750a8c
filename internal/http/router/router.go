package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/summittrails/pricing-api/internal/auth"
	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/database"
	"github.com/summittrails/pricing-api/internal/http/handler"
	"github.com/summittrails/pricing-api/internal/http/middleware"
	"github.com/summittrails/pricing-api/internal/warehouse"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/summittrails/pricing-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	warehouseClient *warehouse.Client
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	auditMiddleware *middleware.AuditMiddleware
	pricingHandler  *handler.PricingHandler
	rateHandler     *handler.RateHandler
	ruleHandler     *handler.RuleHandler
	agencyHandler   *handler.AgencyHandler
	marginHandler   *handler.MarginHandler
	demandHandler   *handler.DemandHandler
	auditHandler    *handler.AuditHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	warehouseClient *warehouse.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	pricingHandler *handler.PricingHandler,
	rateHandler *handler.RateHandler,
	ruleHandler *handler.RuleHandler,
	agencyHandler *handler.AgencyHandler,
	marginHandler *handler.MarginHandler,
	demandHandler *handler.DemandHandler,
	auditHandler *handler.AuditHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		warehouseClient: warehouseClient,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		auditMiddleware: auditMiddleware,
		pricingHandler:  pricingHandler,
		rateHandler:     rateHandler,
		ruleHandler:     ruleHandler,
		agencyHandler:   agencyHandler,
		marginHandler:   marginHandler,
		demandHandler:   demandHandler,
		auditHandler:    auditHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check. The warehouse is optional and read-only,
	// so its status is reported but never flips readiness.
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		if rt.warehouseClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			checks["warehouse"] = rt.warehouseClient.Health(ctx)
			cancel()
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Pricing endpoints accept anonymous traffic on the retail
		// channel; authenticated callers get their channel's view.
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.OptionalAuthenticate)

			r.Post("/pricing/simulate", rt.pricingHandler.SimulatePrice)
			r.Post("/quotes", rt.pricingHandler.CalculateQuote)
		})

		// Staff-only management routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.authMiddleware.RequireStaff)
			r.Use(rt.auditMiddleware.Audit)

			r.Route("/rates", func(r chi.Router) {
				r.Get("/", rt.rateHandler.List)
				r.Post("/", rt.rateHandler.Create)
				r.Get("/{id}", rt.rateHandler.Get)
				r.Put("/{id}", rt.rateHandler.Update)
				r.Delete("/{id}", rt.rateHandler.Deactivate)
			})

			r.Route("/pricing-rules", func(r chi.Router) {
				r.Get("/", rt.ruleHandler.List)
				r.Post("/", rt.ruleHandler.Create)
				r.Get("/{id}", rt.ruleHandler.Get)
				r.Put("/{id}", rt.ruleHandler.Update)
				r.Delete("/{id}", rt.ruleHandler.Delete)
			})

			r.Route("/agencies", func(r chi.Router) {
				r.Get("/", rt.agencyHandler.List)
				r.Post("/", rt.agencyHandler.Create)
				r.Get("/{id}", rt.agencyHandler.Get)
				r.Put("/{id}", rt.agencyHandler.Update)
				r.Delete("/{id}", rt.agencyHandler.Deactivate)
			})

			r.Route("/margin-overrides", func(r chi.Router) {
				r.Get("/", rt.marginHandler.List)
				r.Post("/", rt.marginHandler.Create)
				r.Get("/resolve", rt.marginHandler.Resolve)
				r.Get("/{id}", rt.marginHandler.Get)
				r.Delete("/{id}", rt.marginHandler.Delete)
			})

			r.Route("/demand", func(r chi.Router) {
				r.Get("/", rt.demandHandler.List)
				r.Put("/", rt.demandHandler.Upsert)
			})

			r.Get("/audit", rt.auditHandler.List)
		})
	})

	return r
}
