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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/application"
	"github.com/beerescue/service-storefront/internal/catalogapi"
	"github.com/beerescue/service-storefront/internal/common/auth"
	"github.com/beerescue/service-storefront/internal/common/database"
	"github.com/beerescue/service-storefront/internal/common/health"
	"github.com/beerescue/service-storefront/internal/common/kafka"
	"github.com/beerescue/service-storefront/internal/common/logger"
	"github.com/beerescue/service-storefront/internal/common/middleware"
	"github.com/beerescue/service-storefront/internal/config"
	bookingDomain "github.com/beerescue/service-storefront/internal/domain/booking"
	storefrontEvents "github.com/beerescue/service-storefront/internal/events"
	"github.com/beerescue/service-storefront/internal/handler"
	"github.com/beerescue/service-storefront/internal/metrics"
	"github.com/beerescue/service-storefront/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-storefront")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-storefront",
		zap.String("port", cfg.Port),
		zap.String("catalog_base_url", cfg.CatalogConfig.BaseURL),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.SessionModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		dbURL := dbConfig.DatabaseURL()
		if err := database.RunMigrations(dbURL, "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTTL)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Cancellation guard: Redis when configured, process memory otherwise
	var guard bookingDomain.InFlightGuard
	if cfg.RedisConfig.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer func() { _ = rdb.Close() }()
		guard = repository.NewRedisInFlightGuard(rdb)
	} else {
		log.Warn("REDIS_ADDR not set, cancellation guard is process-local")
		guard = repository.NewMemoryInFlightGuard()
	}

	// Initialize repositories and the upstream client
	sessionRepo := repository.NewGormSessionRepository(db)
	upstream := catalogapi.NewClient(cfg.CatalogConfig.BaseURL, cfg.CatalogConfig.Timeout, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	screens := application.NewScreenStore(cfg.ScreenTTL, log)
	go screens.Run(ctx, time.Minute)

	// Initialize application services
	sessionService := application.NewSessionService(upstream, sessionRepo, jwtManager, screens, log, cfg.SessionTTL)
	ratingService := application.NewRatingService(upstream, upstream, screens, kafkaProducer, log, cfg.ReviewStatusConcurrency)
	bookingService := application.NewBookingService(
		upstream,
		ratingService,
		guard,
		bookingDomain.NewHalfDepositPolicy(),
		screens,
		kafkaProducer,
		log,
	)
	reservationService := application.NewReservationService(upstream, upstream, screens, kafkaProducer, log)
	catalogService := application.NewCatalogService(upstream, upstream, log)
	addressService := application.NewAddressService(upstream, screens, log)

	go sessionService.RunPurge(ctx, cfg.SessionPurgeInterval)

	// Initialize and start booking status consumer in a goroutine
	groupID := cfg.KafkaConfig.GroupPrefix + "service-storefront"
	statusConsumer := storefrontEvents.NewBookingStatusConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		screens,
		log,
	)
	defer func() { _ = statusConsumer.Close() }()

	go func() {
		log.Info("starting booking status consumer")
		if err := statusConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("booking status consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	addressHandler := handler.NewAddressHandler(addressService)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.Run(ctx, time.Minute, 10*time.Minute)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.MaxMultipartMemory = handler.MaxVideoBytes

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.MetricsMiddleware(metrics.RecordHTTPRequest))

	// Register health check and metrics routes
	healthHandler := health.NewHandler(db, "service-storefront")
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register routes
	api := router.Group("")
	api.Use(middleware.RateLimitMiddleware(limiter))
	protected := handler.RequireSession(jwtManager, sessionService)

	sessionHandler.RegisterRoutes(api, protected)
	bookingHandler.RegisterRoutes(api, protected)
	ratingHandler.RegisterRoutes(api, protected)
	reservationHandler.RegisterRoutes(api, protected)
	catalogHandler.RegisterRoutes(api, protected)
	addressHandler.RegisterRoutes(api, protected)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-storefront...")

	// Stop the consumer and background sweepers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-storefront stopped")
}
