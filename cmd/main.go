package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"buildmart-storefront/configs"
	"buildmart-storefront/internal/filters"
	"buildmart-storefront/internal/handlers"
	"buildmart-storefront/internal/middleware"
	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/repositories"
	"buildmart-storefront/internal/services"
	"buildmart-storefront/pkg/auth"
	"buildmart-storefront/pkg/cache"
	"buildmart-storefront/pkg/database"
	"buildmart-storefront/pkg/logger"
	"buildmart-storefront/pkg/messaging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	config := configs.LoadConfig()

	// Set Gin mode
	gin.SetMode(config.Server.Mode)

	zlog, err := logger.New(config.Server.Mode, config.Log.Level)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := database.NewDatabase(config.Database.PostgresURL, config.Database.MongoURL, config.Database.MongoDBName, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to databases", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx,
		&models.User{},
		&models.Address{},
		&models.Order{},
		&models.Inquiry{},
		&models.StateRecord{},
	); err != nil {
		zlog.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Redis is optional; without it every read goes to the databases.
	var serviceCache services.Cache
	redisCache, err := cache.NewRedisCache(config.Redis.URL, config.Redis.Password, config.Redis.DB)
	if err != nil {
		zlog.Warn("Redis unavailable, running without cache", zap.Error(err))
	} else {
		serviceCache = redisCache
		defer redisCache.Close()
	}

	// Initialize Kafka
	kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers, zlog)
	defer kafkaProducer.Close()
	kafkaConsumer := messaging.NewKafkaConsumer(config.Kafka.Brokers, config.Kafka.GroupID, zlog)
	defer kafkaConsumer.Close()

	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours, config.JWT.RefreshDays)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.Postgres)
	addressRepo := repositories.NewAddressRepository(db.Postgres)
	orderRepo := repositories.NewOrderRepository(db.Postgres)
	inquiryRepo := repositories.NewInquiryRepository(db.Postgres)
	stateRepo := repositories.NewStateRepository(db.Postgres)

	// MongoDB repositories
	productRepo := repositories.NewProductRepository(db.MongoDB)
	categoryRepo := repositories.NewCategoryRepository(db.MongoDB)
	reviewRepo := repositories.NewReviewRepository(db.MongoDB)

	// Initialize services
	sf := config.Storefront
	pipeline := filters.NewPipeline(sf.Locale, sf.ProductPageSize)
	catalogService := services.NewCatalogService(productRepo, categoryRepo, serviceCache, pipeline,
		time.Duration(sf.CatalogCacheMinutes)*time.Minute, zlog.Named("catalog"))
	cartService := services.NewCartService(stateRepo, catalogService, serviceCache,
		services.ShippingPolicy{Fee: sf.ShippingFee, FreeShippingThreshold: sf.FreeShippingThreshold}, zlog.Named("cart"))
	wishlistService := services.NewWishlistService(stateRepo, catalogService, zlog.Named("wishlist"))
	orderService := services.NewOrderService(orderRepo, addressRepo, productRepo, cartService, catalogService, kafkaProducer,
		services.Topics{
			Orders:  config.Kafka.OrderTopic,
			Carts:   config.Kafka.CartTopic,
			Catalog: config.Kafka.CatalogTopic,
		}, zlog.Named("order"))
	reviewService := services.NewReviewService(reviewRepo, productRepo, orderRepo, userRepo, catalogService, zlog.Named("review"))
	authService := services.NewAuthService(userRepo, jwtManager, serviceCache, zlog.Named("auth"))
	addressService := services.NewAddressService(addressRepo)
	inquiryService := services.NewInquiryService(inquiryRepo)

	// Other instances publish stock and product changes; drop our cached
	// catalog when they do.
	go kafkaConsumer.Consume(ctx, config.Kafka.CatalogTopic, catalogService.HandleCatalogEvent)

	if serviceCache != nil {
		cronService := services.NewCronService(catalogService,
			time.Duration(sf.CatalogWarmMinutes)*time.Minute, zlog.Named("cron"))
		cronService.Start(ctx)
		defer cronService.Stop()
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(catalogService, reviewService,
		handlers.FilterCookie{Name: sf.FilterCookieName, Days: sf.FilterCookieDays}, zlog.Named("filters"))
	cartHandler := handlers.NewCartHandler(cartService, orderService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	orderHandler := handlers.NewOrderHandler(orderService)
	addressHandler := handlers.NewAddressHandler(addressService)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)

	// Initialize Gin router
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(zlog.Named("http")))
	router.Use(middleware.RecoveryMiddleware(zlog))
	router.Use(middleware.CORSMiddleware(config.Server.AllowedOrigins))

	// Health check endpoint
	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"status":  "healthy",
				"service": "buildmart-storefront",
			},
		})
	}
	router.GET("/health", health)
	router.GET("/api/health", health)

	// API routes
	api := router.Group("/api/v1")

	// Register routes
	authHandler.RegisterRoutes(api, authMiddleware)
	productHandler.RegisterRoutes(api, authMiddleware)
	cartHandler.RegisterRoutes(api, authMiddleware)
	wishlistHandler.RegisterRoutes(api, authMiddleware)
	orderHandler.RegisterRoutes(api, authMiddleware)
	addressHandler.RegisterRoutes(api, authMiddleware)
	inquiryHandler.RegisterRoutes(api, authMiddleware)

	server := &http.Server{
		Addr:              ":" + config.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server starting", zap.String("port", config.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Graceful shutdown failed", zap.Error(err))
	}
}
