package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	application "github.com/johnkamauwamunga/energy-erp-sub007/internal/application/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/auth"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/cache"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/config"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/ledger"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/logger"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/persistence"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/treasury"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/interfaces/http/handler"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/interfaces/http/middleware"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting payables engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Submission guard: Redis in production, in-memory fallback elsewhere
	guard, err := cache.NewSubmissionGuard(cfg.Redis, log, cfg.App.Env != "production")
	if err != nil {
		log.Fatal("Failed to initialize submission guard", zap.Error(err))
	}

	// Upstream clients
	ledgerClient := ledger.NewClient(cfg.Ledger)
	treasuryClient := treasury.NewClient(cfg.Treasury)

	// Application service
	submissionRepo := persistence.NewGormSubmissionRepository(db.DB)
	paymentService := application.NewPaymentSessionService(
		ledgerClient,
		treasuryClient,
		submissionRepo,
		guard,
		log,
	).WithSubmitTTL(cfg.Session.SubmitClaimTTL)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check outside API versioning and authentication
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddleware(jwtService))
	r.Register(handler.NewSupplierAccountHandler(paymentService)).
		Register(handler.NewPaymentSessionHandler(paymentService)).
		Register(handler.NewSubmissionHandler(submissionRepo))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process and database liveness
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
