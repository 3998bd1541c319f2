package main

import (
	"fmt"
	"net/http"
	"os"

	"moneta/internal/config"
	"moneta/internal/database"
	"moneta/internal/handlers"
	"moneta/internal/logger"
	"moneta/internal/middleware"
	"moneta/internal/services"
	"moneta/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "moneta/internal/docs" // Import swagger docs
)

// @title           Moneta API
// @version         1.0
// @description     Moneta tracks multi-currency accounts, trades, and cash movements, and maintains daily per-currency financial snapshots for each account.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	currencyService := services.NewCurrencyService(db)
	accountService := services.NewAccountService(db)
	movementService := services.NewMovementService(db, accountService)
	priceService := services.NewPriceService(db)
	snapshotService := services.NewSnapshotService(db, accountService, movementService, priceService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, currencyService, snapshotService)
	movementHandler := handlers.NewMovementHandler(movementService, currencyService, snapshotService)
	priceHandler := handlers.NewPriceHandler(priceService, currencyService)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService)

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

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Pipeline routes (API-key auth, used by data pipelines)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/prices", priceHandler.RecordPrice)
	pipeline.POST("/snapshots/recompute", snapshotHandler.RecomputeAccount)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Currency routes
	protected.GET("/currencies", accountHandler.ListCurrencies)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeactivateAccount)
	accounts.GET("/:id/movements/cash", movementHandler.GetCashMovements)
	accounts.GET("/:id/movements/trades", movementHandler.GetTrades)
	accounts.GET("/:id/movements/dividends", movementHandler.GetDividends)
	accounts.GET("/:id/movements/dividend-taxes", movementHandler.GetDividendTaxes)
	accounts.GET("/:id/movements/options", movementHandler.GetOptionTrades)
	accounts.GET("/:id/snapshots", snapshotHandler.GetAccountSnapshots)
	accounts.GET("/:id/snapshots/rollup", snapshotHandler.GetAccountRollup)

	// Movement routes
	movements := protected.Group("/movements")
	movements.POST("/cash", movementHandler.CreateCashMovement)
	movements.DELETE("/cash/:id", movementHandler.DeleteCashMovement)
	movements.POST("/trades", movementHandler.CreateTrade)
	movements.DELETE("/trades/:id", movementHandler.DeleteTrade)
	movements.POST("/dividends", movementHandler.CreateDividend)
	movements.DELETE("/dividends/:id", movementHandler.DeleteDividend)
	movements.POST("/dividend-taxes", movementHandler.CreateDividendTax)
	movements.DELETE("/dividend-taxes/:id", movementHandler.DeleteDividendTax)
	movements.POST("/options", movementHandler.CreateOptionTrade)
	movements.DELETE("/options/:id", movementHandler.DeleteOptionTrade)

	// Price routes
	protected.GET("/prices/:ticker", priceHandler.GetPrices)

	log.Infof("Starting Moneta backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
