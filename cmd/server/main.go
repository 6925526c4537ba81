package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	invapp "github.com/foodshop/backend/internal/application/inventory"
	opsapp "github.com/foodshop/backend/internal/application/operations"
	salesapp "github.com/foodshop/backend/internal/application/sales"
	"github.com/foodshop/backend/internal/infrastructure/cache"
	"github.com/foodshop/backend/internal/infrastructure/config"
	"github.com/foodshop/backend/internal/infrastructure/event"
	"github.com/foodshop/backend/internal/infrastructure/logger"
	"github.com/foodshop/backend/internal/infrastructure/persistence"
	"github.com/foodshop/backend/internal/interfaces/http/handler"
	"github.com/foodshop/backend/internal/interfaces/http/middleware"
	"github.com/foodshop/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting foodshop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// GORM logging goes through zap as well
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	dailyRecordRepo := persistence.NewGormDailyRecordRepository(db.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)
	transferRepo := persistence.NewGormStorageTransferRepository(db.DB)
	spoilageRepo := persistence.NewGormSpoilageRepository(db.DB)
	storageRepo := persistence.NewGormStorageInventoryRepository(db.DB)
	batchRepo := persistence.NewGormIngredientBatchRepository(db.DB)
	recordedSaleRepo := persistence.NewGormRecordedSaleRepository(db.DB)
	calculatedSaleRepo := persistence.NewGormCalculatedSaleRepository(db.DB)
	ingredientRepo := persistence.NewGormIngredientRepository(db.DB)
	variantRepo := persistence.NewGormProductVariantRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Expiry alert feed cache, Redis-backed when configured
	expiryCache := cache.NewExpiryFeedCache(cfg.Redis, cfg.Inventory.ExpiryCacheTTL, log)

	// Initialize application services
	dayService := opsapp.NewDailyRecordService(
		txScope,
		dailyRecordRepo,
		snapshotRepo,
		deliveryRepo,
		transferRepo,
		spoilageRepo,
		batchRepo,
		recordedSaleRepo,
		calculatedSaleRepo,
		ingredientRepo,
		variantRepo,
		eventBus,
		log,
	)
	deliveryService := invapp.NewDeliveryService(txScope, deliveryRepo, ingredientRepo, eventBus, log)
	movementService := invapp.NewMovementService(txScope, transferRepo, storageRepo, spoilageRepo, ingredientRepo, eventBus, log)
	batchService := invapp.NewBatchService(txScope, batchRepo, ingredientRepo, expiryCache, cfg.Inventory.ExpiryHorizonDays, eventBus, log)
	salesService := salesapp.NewSalesService(txScope, recordedSaleRepo, variantRepo, nil, eventBus, log)
	reconciliationService := salesapp.NewReconciliationService(recordedSaleRepo, calculatedSaleRepo, variantRepo, log)

	// Setup gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	// Health check stays outside the versioned API
	engine.GET("/health", healthHandler(db, log))

	// Register routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewDailyRecordHandler(dayService)).
		Register(handler.NewDeliveryHandler(deliveryService)).
		Register(handler.NewMovementHandler(movementService)).
		Register(handler.NewBatchHandler(batchService)).
		Register(handler.NewSalesHandler(salesService, reconciliationService)).
		Register(handler.NewCatalogHandler(ingredientRepo, variantRepo)).
		Register(handler.NewSystemHandler())
	r.Setup()

	// Create HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
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

func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "error",
				"time":     time.Now().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "ok",
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}
