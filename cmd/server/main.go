package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bookingapp "github.com/estate/backend/internal/application/booking"
	estateapp "github.com/estate/backend/internal/application/estate"
	ledgerapp "github.com/estate/backend/internal/application/ledger"
	"github.com/estate/backend/internal/application/notify"
	ownershipapp "github.com/estate/backend/internal/application/ownership"
	partnerapp "github.com/estate/backend/internal/application/partner"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/auth"
	"github.com/estate/backend/internal/infrastructure/cache"
	"github.com/estate/backend/internal/infrastructure/config"
	"github.com/estate/backend/internal/infrastructure/event"
	"github.com/estate/backend/internal/infrastructure/logger"
	"github.com/estate/backend/internal/infrastructure/persistence"
	"github.com/estate/backend/internal/infrastructure/scheduler"
	"github.com/estate/backend/internal/infrastructure/telemetry"
	"github.com/estate/backend/internal/interfaces/http/handler"
	"github.com/estate/backend/internal/interfaces/http/middleware"
	"github.com/estate/backend/internal/interfaces/http/router"
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

	log.Info("Starting Estate Ledger Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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
	societyRepo := persistence.NewGormSocietyRepository(db.DB)
	plotRepo := persistence.NewGormPlotRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	installmentRepo := persistence.NewGormInstallmentRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	resellRepo := persistence.NewGormResellRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	sweepRunRepo := scheduler.NewSweepRunRepository(db.DB)
	txRunner := persistence.NewGormTxRunner(db.DB)

	// Initialize application services
	societyService := estateapp.NewSocietyService(societyRepo)
	plotService := estateapp.NewPlotService(plotRepo, societyRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	bookingService := bookingapp.NewBookingService(
		bookingRepo, installmentRepo, plotRepo, customerRepo, transactionRepo, txRunner,
	)
	ledgerService := ledgerapp.NewLedgerService(
		bookingRepo, installmentRepo, plotRepo, transactionRepo, txRunner,
	)
	ownershipService := ownershipapp.NewOwnershipService(
		plotRepo, bookingRepo, installmentRepo, customerRepo,
		resellRepo, transferRepo, transactionRepo, txRunner,
	)
	sweeper := ledgerapp.NewOverdueSweeper(installmentRepo, log)

	// JWT service for API authentication. Tokens are issued by the
	// operator's identity service; this backend only verifies them.
	jwtService := auth.NewJWTService(cfg.JWT)

	// Redis-backed token blacklist for revoked tokens. The API stays up
	// without Redis, it just cannot reject revoked tokens.
	var tokenBlacklist auth.TokenBlacklist
	if blacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		log.Warn("Token blacklist unavailable, continuing without revocation checks", zap.Error(err))
	} else {
		tokenBlacklist = blacklist
		defer func() {
			if err := blacklist.Close(); err != nil {
				log.Error("Error closing token blacklist", zap.Error(err))
			}
		}()
		log.Info("Token blacklist connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	// Idempotency store for duplicate suppression. Shared by the event
	// handlers and the payment endpoint. Redis keeps the processed-key
	// set consistent across instances; a single instance falls back to
	// the in-memory store when Redis is unreachable.
	var idempotencyStore shared.IdempotencyStore
	if store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		log.Warn("Redis idempotency store unavailable, using in-memory store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotencyStore = store
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize event bus and notification handlers
	eventBus := event.NewInMemoryEventBus(log)

	notificationSink := notify.NewLogSink(log)
	bookingCreatedHandler := notify.NewBookingCreatedHandler(notificationSink, log)
	bookingSettledHandler := notify.NewBookingSettledHandler(notificationSink, log)
	installmentOverdueHandler := notify.NewInstallmentOverdueHandler(notificationSink, log)
	ownershipChangedHandler := notify.NewOwnershipChangedHandler(notificationSink, log)

	for _, h := range event.WrapHandlersWithIdempotency(
		[]shared.EventHandler{bookingCreatedHandler, bookingSettledHandler, installmentOverdueHandler, ownershipChangedHandler},
		idempotencyStore, log,
	) {
		eventBus.Subscribe(h)
	}

	log.Info("Event handlers registered",
		zap.Strings("booking_created_events", bookingCreatedHandler.EventTypes()),
		zap.Strings("booking_settled_events", bookingSettledHandler.EventTypes()),
		zap.Strings("installment_overdue_events", installmentOverdueHandler.EventTypes()),
		zap.Strings("ownership_changed_events", ownershipChangedHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	bookingService.SetEventPublisher(eventBus)
	ledgerService.SetEventPublisher(eventBus)
	ownershipService.SetEventPublisher(eventBus)
	sweeper.SetEventPublisher(eventBus)

	// Initialize OpenTelemetry tracing and metrics
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled {
		// Database query and pool metrics via GORM callbacks
		if _, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log); err != nil {
			log.Error("Failed to register database metrics", zap.Error(err))
		}

		// Business metrics: booking/payment counters and installment gauges
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:               meterProvider.Meter("estate/business"),
			Logger:              log,
			InstallmentProvider: installmentRepo,
		})
		if err != nil {
			log.Error("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(context.Background(), societyRepo, 5*time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// Start the daily overdue sweep scheduler (if enabled)
	var sweepScheduler *scheduler.SweepScheduler
	if cfg.Sweep.Enabled {
		cronHour, cronMinute, err := scheduler.ParseCronSchedule(cfg.Sweep.DailyCronSchedule)
		if err != nil {
			log.Warn("Invalid sweep cron schedule, using default 01:00",
				zap.String("schedule", cfg.Sweep.DailyCronSchedule),
				zap.Error(err),
			)
		}
		sweepScheduler = scheduler.NewSweepScheduler(scheduler.SweepSchedulerConfig{
			Enabled:           cfg.Sweep.Enabled,
			CronHour:          cronHour,
			CronMinute:        cronMinute,
			DailyCronSchedule: cfg.Sweep.DailyCronSchedule,
			JobTimeout:        cfg.Sweep.JobTimeout,
		}, sweeper, sweepRunRepo, log)
		if err := sweepScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sweep scheduler", zap.Error(err))
		}
		defer func() {
			if err := sweepScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping sweep scheduler", zap.Error(err))
			}
		}()
		log.Info("Sweep scheduler started",
			zap.Int("cron_hour", cronHour),
			zap.Int("cron_minute", cronMinute),
			zap.Duration("job_timeout", cfg.Sweep.JobTimeout),
		)
	}

	// Initialize HTTP handlers
	societyHandler := handler.NewSocietyHandler(societyService)
	plotHandler := handler.NewPlotHandler(plotService)
	customerHandler := handler.NewCustomerHandler(customerService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService).WithIdempotencyStore(idempotencyStore)
	ownershipHandler := handler.NewOwnershipHandler(ownershipService)
	sweepHandler := handler.NewSweepHandler(sweeper, sweepScheduler)

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

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. Tracing/Metrics - OpenTelemetry instrumentation
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
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

	// OpenTelemetry HTTP instrumentation
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("estate/http"), true))
	}

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

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Estate domain (societies, plots)
	estateRoutes := router.NewDomainGroup("estate", "")

	// Society routes
	estateRoutes.POST("/societies", societyHandler.Create)
	estateRoutes.GET("/societies", societyHandler.List)
	estateRoutes.GET("/societies/:id", societyHandler.GetByID)
	estateRoutes.PUT("/societies/:id", societyHandler.Update)
	estateRoutes.DELETE("/societies/:id", societyHandler.Delete)
	estateRoutes.GET("/societies/:id/customers", customerHandler.ListBySociety)
	estateRoutes.GET("/societies/:id/plots/:number", plotHandler.GetByNumber)

	// Plot routes
	estateRoutes.POST("/plots", plotHandler.Register)
	estateRoutes.GET("/plots", plotHandler.List)
	estateRoutes.GET("/plots/:id", plotHandler.GetByID)
	estateRoutes.PUT("/plots/:id/price", plotHandler.UpdatePrice)
	estateRoutes.POST("/plots/:id/hold", plotHandler.Hold)
	estateRoutes.POST("/plots/:id/release-hold", plotHandler.ReleaseHold)
	estateRoutes.DELETE("/plots/:id", plotHandler.Delete)
	estateRoutes.GET("/plots/:id/balance", bookingHandler.PlotBalance)
	estateRoutes.GET("/plots/:id/installments", bookingHandler.ListInstallmentsByPlot)
	estateRoutes.GET("/plots/:id/resells", ownershipHandler.ListResells)
	estateRoutes.GET("/plots/:id/transfers", ownershipHandler.ListTransfers)

	// Partner domain (customers)
	partnerRoutes := router.NewDomainGroup("partner", "")
	partnerRoutes.POST("/customers", customerHandler.Register)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/cnic/:cnic", customerHandler.GetByCNIC)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.DELETE("/customers/:id", customerHandler.Delete)
	partnerRoutes.GET("/customers/:id/plots", plotHandler.ListByCustomer)
	partnerRoutes.GET("/customers/:id/installments", bookingHandler.ListInstallmentsByCustomer)

	// Booking domain (bookings, payments)
	bookingRoutes := router.NewDomainGroup("booking", "")
	bookingRoutes.POST("/bookings", bookingHandler.Create)
	bookingRoutes.GET("/bookings", bookingHandler.List)
	bookingRoutes.GET("/bookings/number/:number", bookingHandler.GetByNumber)
	bookingRoutes.GET("/bookings/:id", bookingHandler.GetByID)
	bookingRoutes.GET("/bookings/:id/schedule", bookingHandler.GetSchedule)
	bookingRoutes.GET("/bookings/:id/transactions", ledgerHandler.ListByBooking)
	bookingRoutes.POST("/payments", ledgerHandler.ApplyPayment)
	bookingRoutes.POST("/installments/:id/payments", ledgerHandler.ApplyInstallmentPayment)

	// Finance domain (ledger transactions, ownership changes)
	financeRoutes := router.NewDomainGroup("finance", "")
	financeRoutes.POST("/transactions", ledgerHandler.RecordTransaction)
	financeRoutes.GET("/transactions", ledgerHandler.List)
	financeRoutes.GET("/transactions/summary", ledgerHandler.Summarize)
	financeRoutes.GET("/transactions/:id", ledgerHandler.GetByID)
	financeRoutes.POST("/resells", ownershipHandler.Resell)
	financeRoutes.POST("/transfers", ownershipHandler.Transfer)

	// Admin domain (overdue sweep)
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.POST("/sweep", sweepHandler.Run)
	adminRoutes.POST("/sweep/trigger", sweepHandler.Trigger)

	// Register all domain groups
	r.Register(estateRoutes).
		Register(partnerRoutes).
		Register(bookingRoutes).
		Register(financeRoutes).
		Register(adminRoutes)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
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
