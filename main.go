package main

import (
	"fmt"
	"net/http"
	"os"

	"bakery-pos-api/config"
	"bakery-pos-api/handlers"
	"bakery-pos-api/notifier"
	"bakery-pos-api/routes"
	"bakery-pos-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("POS_CONFIG"))
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	db, err := config.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	logger.Info("Database connected and migrated", zap.String("path", cfg.Database.Path))

	// Queue notifier: live redis channel when configured, no-op otherwise.
	// Chosen once here and injected — settlement code never branches on it.
	var queueNotifier notifier.Notifier = notifier.Noop{}
	if cfg.Redis.Addr != "" {
		redisNotifier := notifier.NewRedisNotifier(&cfg.Redis)
		queueNotifier = redisNotifier
		defer redisNotifier.Close()
		logger.Info("Live queue notifier enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		logger.Info("No redis configured, queue notifications disabled")
	}

	orderService := services.NewOrderService(db, logger)
	paymentService := services.NewPaymentService(db, queueNotifier, logger)

	jwtSecret := []byte(cfg.JWT.Secret)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for the admin console
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Bakery POS API",
			"version": "1.0.0",
		})
	})

	routes.SetupRoutes(r, routes.Dependencies{
		Auth:      handlers.NewAuthHandler(db, jwtSecret),
		Orders:    handlers.NewOrderHandler(orderService, paymentService),
		Catalog:   handlers.NewCatalogHandler(db),
		Reports:   handlers.NewReportHandler(db),
		JWTSecret: jwtSecret,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
