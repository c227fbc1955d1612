package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"networth/internal/config"
	"networth/internal/database"
	"networth/internal/handlers"
	"networth/internal/logger"
	"networth/internal/middleware"
	plaidprovider "networth/internal/providers/plaid"
	snaptradeprovider "networth/internal/providers/snaptrade"
	"networth/internal/services"
	"networth/internal/validator"

	_ "networth/internal/docs" // Import swagger docs
)

// @title           Networth API
// @version         1.0
// @description     Networth is a personal finance backend that aggregates accounts, investments, and liabilities into a hierarchical portfolio overview.
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
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	groupService := services.NewGroupService(db, services.DefaultGroupConfig())
	userService := services.NewUserService(db, groupService, nil)
	accountService := services.NewAccountService(db)
	securityService := services.NewSecurityService(db, groupService)
	cryptoService := services.NewCryptoService(db, groupService)
	otherAssetService := services.NewOtherAssetService(db, groupService)
	liabilityService := services.NewLiabilityService(db, groupService)
	transactionService := services.NewTransactionService(db)
	importService := services.NewImportService(db, groupService)
	auditService := services.NewAuditService(db)

	var plaidClient services.PlaidProvider
	if appConfig.PlaidClientID != "" {
		plaidClient = plaidprovider.NewClient(appConfig.PlaidClientID, appConfig.PlaidSecret, appConfig.PlaidEnvironment)
	}
	var snaptradeClient services.SnapTradeProvider
	if appConfig.SnapTradeClientID != "" {
		snaptradeClient = snaptradeprovider.NewClient(appConfig.SnapTradeClientID, appConfig.SnapTradeConsumerKey)
	}
	integrationService := services.NewIntegrationService(db, plaidClient, snaptradeClient, importService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	groupHandler := handlers.NewGroupHandler(groupService, auditService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	securityHandler := handlers.NewSecurityHandler(securityService, auditService)
	cryptoHandler := handlers.NewCryptoHandler(cryptoService, auditService)
	otherAssetHandler := handlers.NewOtherAssetHandler(otherAssetService, auditService)
	liabilityHandler := handlers.NewLiabilityHandler(liabilityService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	integrationHandler := handlers.NewIntegrationHandler(integrationService, auditService)

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

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and verification
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/profile/email/request-code", authHandler.RequestEmailCode)
	protected.POST("/profile/email/confirm", authHandler.ConfirmEmail)
	protected.POST("/profile/sms/request-code", authHandler.RequestSMSCode)
	protected.POST("/profile/sms/confirm", authHandler.ConfirmSMS)

	// Asset group routes
	groups := protected.Group("/groups")
	groups.POST("", groupHandler.CreateGroup)
	groups.GET("", groupHandler.GetUserGroups)
	groups.GET("/:id", groupHandler.GetGroupByID)
	groups.PUT("/:id", groupHandler.UpdateGroup)
	groups.DELETE("/:id", groupHandler.DeleteGroup)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Security routes
	securities := protected.Group("/securities")
	securities.POST("", securityHandler.CreateSecurity)
	securities.GET("", securityHandler.GetUserSecurities)
	securities.GET("/:id", securityHandler.GetSecurityByID)
	securities.PUT("/:id", securityHandler.UpdateSecurity)
	securities.DELETE("/:id", securityHandler.DeleteSecurity)

	// Crypto routes
	cryptos := protected.Group("/cryptos")
	cryptos.POST("", cryptoHandler.CreateCrypto)
	cryptos.GET("", cryptoHandler.GetUserCryptos)
	cryptos.GET("/:id", cryptoHandler.GetCryptoByID)
	cryptos.PUT("/:id", cryptoHandler.UpdateCrypto)
	cryptos.DELETE("/:id", cryptoHandler.DeleteCrypto)

	// Other asset routes
	otherAssets := protected.Group("/other-assets")
	otherAssets.POST("", otherAssetHandler.CreateOtherAsset)
	otherAssets.GET("", otherAssetHandler.GetUserOtherAssets)
	otherAssets.GET("/:id", otherAssetHandler.GetOtherAssetByID)
	otherAssets.PUT("/:id", otherAssetHandler.UpdateOtherAsset)
	otherAssets.DELETE("/:id", otherAssetHandler.DeleteOtherAsset)

	// Liability routes
	liabilities := protected.Group("/liabilities")
	liabilities.POST("", liabilityHandler.CreateLiability)
	liabilities.GET("", liabilityHandler.GetUserLiabilities)
	liabilities.GET("/:id", liabilityHandler.GetLiabilityByID)
	liabilities.PUT("/:id", liabilityHandler.UpdateLiability)
	liabilities.DELETE("/:id", liabilityHandler.DeleteLiability)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetLinkedTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Integration routes
	integrations := protected.Group("/integrations")
	integrations.POST("/plaid/link-token", integrationHandler.CreatePlaidLinkToken)
	integrations.POST("/plaid/connect", integrationHandler.ConnectPlaid)
	integrations.POST("/plaid/sync", integrationHandler.SyncPlaid)
	integrations.POST("/snaptrade/connect", integrationHandler.ConnectSnapTrade)
	integrations.POST("/snaptrade/sync", integrationHandler.SyncSnapTrade)

	log.Infof("Starting Networth backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
