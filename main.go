package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/vmotion/repairshop-api/config"
	"github.com/vmotion/repairshop-api/controllers"
	_ "github.com/vmotion/repairshop-api/docs"
	"github.com/vmotion/repairshop-api/logging"
	"github.com/vmotion/repairshop-api/middleware"
	"github.com/vmotion/repairshop-api/models"
	"github.com/vmotion/repairshop-api/services"
	"github.com/vmotion/repairshop-api/utils"
	"gorm.io/gorm"
)

// @title Repair Shop Marketplace API
// @version 1.0
// @description Clients request quotes from repair shops and follow their vehicle through the repair.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.L().Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.Init(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		logging.L().Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting repair shop API server...")

	// Connect to database
	if err := config.ConnectDatabase(cfg); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := migrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database migration completed successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cleanup, err := initServices(ctx, cfg, db)
	if err != nil {
		logger.Fatalf("Failed to initialize services: %v", err)
	}
	defer cleanup()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server is running on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Server shutdown failed", "error", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Shop{}, &models.Vehicle{}, &models.Order{})
}

// initServices wires photo storage, order events, the shop cache and the
// order service from the configuration. The returned func releases them.
func initServices(ctx context.Context, cfg *config.Config, db *gorm.DB) (func(), error) {
	logger := logging.L()
	var closers []func() error

	var photos services.PhotoStorage
	switch cfg.PhotoStorage {
	case "s3":
		s3Storage, err := services.InitS3PhotoStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		photos = s3Storage
		logger.Infow("Photo storage: S3", "bucket", cfg.AWSS3Bucket, "region", cfg.AWSRegion)
	default:
		photos = services.NewLocalPhotoStorage(cfg.UploadDir)
		logger.Infow("Photo storage: local disk", "dir", cfg.UploadDir)
	}
	services.SetPhotoStorage(photos)

	var events services.EventPublisher = services.NoopEventPublisher{}
	if cfg.KafkaEnabled() {
		events = services.NewKafkaEventPublisher(cfg.KafkaBrokers, cfg.KafkaOrderEventsTopic)
		closers = append(closers, events.Close)
		logger.Infow("Order events: kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaOrderEventsTopic)
	}

	services.SetShopCache(services.NoopShopCache{})
	if cfg.RedisAddr != "" {
		cache := services.NewRedisShopCache(cfg.RedisAddr, cfg.ShopCacheTTL)
		services.SetShopCache(cache)
		closers = append(closers, cache.Close)
		logger.Infow("Shop cache: redis", "addr", cfg.RedisAddr, "ttl", cfg.ShopCacheTTL)
	}

	store := services.NewGormOrderStore(db)
	services.SetOrderService(services.NewOrderService(services.OrderServiceDeps{
		Store:     store,
		Shops:     store,
		Photos:    photos,
		Events:    events,
		Vehicles:  services.NewLatestVehicleResolver(db),
		Validator: utils.NewPhotoValidator(cfg.PhotoMimeProfile),
		Logger:    logger,
	}))

	return func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logger.Warnw("Failed to release resource", "error", err)
			}
		}
	}, nil
}

// setupRouter builds the HTTP routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logging.L()))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Local photo storage hands out /uploads/<file> URLs
	router.GET("/uploads/:filename", controllers.GetUploadedImage)

	requireAuth := middleware.EnsureValidToken(cfg)
	clientOnly := middleware.RequireRole(models.RoleClient)
	staffOnly := middleware.RequireRole(models.RoleShop, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/register-with-vehicle", controllers.RegisterWithVehicle)
			auth.POST("/login", controllers.Login)
			auth.GET("/me", requireAuth, controllers.Me)
		}

		users := v1.Group("/users")
		{
			users.POST("/seed-admin", controllers.SeedAdmin)
			users.GET("/seed-admin", controllers.SeedAdmin)
			users.POST("/seed-shop-user", controllers.SeedShopUser)
			users.GET("/seed-shop-user", controllers.SeedShopUser)
			users.GET("/me", requireAuth, controllers.GetMyProfile)
			users.PUT("/me", requireAuth, controllers.UpdateMyProfile)
			users.PUT("/me/password", requireAuth, controllers.ChangePassword)
		}

		vehicles := v1.Group("/vehicles", requireAuth, clientOnly)
		{
			vehicles.GET("/my", controllers.ListMyVehicles)
			vehicles.POST("", controllers.CreateVehicle)
			vehicles.PUT("/:id", controllers.UpdateVehicle)
			vehicles.DELETE("/:id", controllers.DeleteVehicle)
		}

		shops := v1.Group("/shops")
		{
			shops.GET("", controllers.ListShops)
			shops.POST("/seed", controllers.SeedShops)
			shops.GET("/mine", requireAuth, staffOnly, controllers.GetMyShop)
			shops.PUT("/mine", requireAuth, staffOnly, controllers.UpdateMyShop)
			shops.GET("/:id", controllers.GetShop)
		}

		orders := v1.Group("/orders", requireAuth)
		{
			orders.POST("", clientOnly, controllers.CreateOrder)
			orders.GET("", adminOnly, controllers.ListAllOrders)
			orders.GET("/mine", clientOnly, controllers.ListMyOrders)
			orders.GET("/shop/mine", staffOnly, controllers.ListShopOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PATCH("/:id", staffOnly, controllers.UpdateOrder)
			orders.POST("/:id/photos", staffOnly, controllers.UploadOrderPhotos)
			orders.POST("/:id/message", clientOnly, controllers.SendClientMessage)
			orders.POST("/:id/rating", clientOnly, controllers.RateOrder)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Repair shop API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
