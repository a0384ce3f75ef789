package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"walletwiz/internal/cache"
	"walletwiz/internal/config"
	"walletwiz/internal/handlers"
	"walletwiz/internal/logger"
	"walletwiz/internal/middleware"
	"walletwiz/internal/repository"
	"walletwiz/internal/session"
	"walletwiz/internal/store"
	"walletwiz/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Open the persistent store and apply migrations
	kv, err := store.NewSQLiteStore(appConfig.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if err := kv.Migrate(); err != nil {
		return fmt.Errorf("failed to run store migrations: %w", err)
	}

	// Stats cache (no-op unless REDIS_ADDR is set)
	statsCache := cache.New(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.StatsCacheTTL)
	defer statsCache.Close()

	// Initialize core components
	repo := repository.New(kv)
	gate := session.NewGate(kv)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(gate)
	transactionHandler := handlers.NewTransactionHandler(repo, statsCache)
	statsHandler := handlers.NewStatsHandler(repo, statsCache)

	// Custom binding validators
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(gate))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/session", authHandler.GetSession)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Stats routes
	statsGroup := protected.Group("/stats")
	statsGroup.GET("/totals", statsHandler.GetTotals)
	statsGroup.GET("/monthly-averages", statsHandler.GetMonthlyAverages)
	statsGroup.GET("/monthly-series", statsHandler.GetMonthlySeries)
	statsGroup.GET("/category-breakdown", statsHandler.GetCategoryBreakdown)

	log.Infof("Starting WalletWiz backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
