package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/pim/backend/internal/application/catalog"
	"github.com/pim/backend/internal/application/importer"
	integrationapp "github.com/pim/backend/internal/application/integration"
	"github.com/pim/backend/internal/infrastructure/auth"
	"github.com/pim/backend/internal/infrastructure/cache"
	"github.com/pim/backend/internal/infrastructure/config"
	"github.com/pim/backend/internal/infrastructure/event"
	"github.com/pim/backend/internal/infrastructure/logger"
	"github.com/pim/backend/internal/infrastructure/persistence"
	"github.com/pim/backend/internal/infrastructure/queue"
	"github.com/pim/backend/internal/interfaces/http/handler"
	"github.com/pim/backend/internal/interfaces/http/middleware"
	"github.com/pim/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/pim/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			PIM Backend API
//	@version		1.0
//	@description	Multi-tenant product information management API with sales channel sync

//	@contact.name	API Support
//	@contact.url	https://github.com/pim/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting PIM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database with a gorm logger bridged to zap
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	// Catalog repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	translationRepo := persistence.NewGormTranslationRepository(db.DB)
	eanCodeRepo := persistence.NewGormEanCodeRepository(db.DB)
	variationRepo := persistence.NewGormVariationRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	assignmentRepo := persistence.NewGormProductPropertyRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	priceRepo := persistence.NewGormSalesPriceRepository(db.DB)
	priceListRepo := persistence.NewGormPriceListRepository(db.DB)
	currencyRepo := persistence.NewGormCurrencyRepository(db.DB)
	vatRateRepo := persistence.NewGormVatRateRepository(db.DB)
	mediaRepo := persistence.NewGormMediaRepository(db.DB)

	// Integration repositories
	channelRepo := persistence.NewGormSalesChannelRepository(db.DB)
	remoteProductRepo := persistence.NewGormRemoteProductRepository(db.DB)
	remoteLogRepo := persistence.NewGormRemoteLogRepository(db.DB)
	queueTaskRepo := persistence.NewGormQueueTaskRepository(db.DB)

	// Domain event bus for import lifecycle events
	eventBus := event.NewInMemoryEventBus(log)

	// Import pipeline
	imp := importer.NewImporter(importer.Repositories{
		Products:     productRepo,
		Translations: translationRepo,
		EanCodes:     eanCodeRepo,
		Variations:   variationRepo,
		Properties:   propertyRepo,
		Assignments:  assignmentRepo,
		Rules:        ruleRepo,
		Prices:       priceRepo,
		PriceLists:   priceListRepo,
		Currencies:   currencyRepo,
		VatRates:     vatRateRepo,
		Media:        mediaRepo,
	}, eventBus, log)

	// Task dedup store, Redis when reachable with in-memory fallback
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	dedupStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	enqueuer := queue.NewEnqueuer(queueTaskRepo, dedupStore, cfg.Queue.DedupWindow, log)

	// Application services
	productService := catalogapp.NewProductService(
		productRepo, translationRepo, eanCodeRepo, variationRepo,
		propertyRepo, assignmentRepo, priceRepo, mediaRepo, log,
	)
	importService := catalogapp.NewImportService(imp, productRepo, cfg.Import.MaxBatchSize, 100, log)
	channelService := integrationapp.NewChannelService(channelRepo, log)
	syncService := integrationapp.NewSyncService(
		channelRepo, queueTaskRepo, remoteProductRepo, remoteLogRepo,
		productRepo, mediaRepo, variationRepo, enqueuer, log,
	)

	// JWT service and optional Redis-backed token revocation
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	if blacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		log.Warn("Token blacklist disabled, Redis unavailable", zap.Error(err))
	} else {
		tokenBlacklist = blacklist
	}

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	importHandler := handler.NewImportHandler(importService)
	channelHandler := handler.NewChannelHandler(channelService)
	syncHandler := handler.NewSyncHandler(syncService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/ping",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Catalog domain (products, batch import)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/sku/:sku", productHandler.GetBySKU)
	catalogRoutes.PATCH("/products/:id/active", productHandler.SetActive)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)
	catalogRoutes.POST("/import/products", importHandler.ImportProducts)

	// Integration domain (channels, sync queue)
	integrationRoutes := router.NewDomainGroup("integration", "/integration")
	integrationRoutes.GET("/channels", channelHandler.List)
	integrationRoutes.POST("/channels", channelHandler.Create)
	integrationRoutes.GET("/channels/:id", channelHandler.GetByID)
	integrationRoutes.PUT("/channels/:id", channelHandler.Update)
	integrationRoutes.DELETE("/channels/:id", channelHandler.Delete)
	integrationRoutes.POST("/channels/:id/products/:productId/sync", syncHandler.EnqueueProductSync)
	integrationRoutes.DELETE("/channels/:id/products/:productId/sync", syncHandler.EnqueueProductDelete)
	integrationRoutes.GET("/channels/:id/products/:productId/mirror", syncHandler.MirrorStatus)
	integrationRoutes.GET("/channels/:id/queue", syncHandler.QueueStatus)
	integrationRoutes.GET("/channels/:id/queue/tasks", syncHandler.ListTasks)
	integrationRoutes.GET("/channels/:id/logs", syncHandler.RecentLogs)
	integrationRoutes.POST("/queue/tasks/:taskId/retry", syncHandler.RetryTask)

	// Register all domain groups
	r.Register(catalogRoutes).
		Register(integrationRoutes)

	// Setup routes
	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
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

	// Graceful shutdown
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
