package server

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	awsclient "github.com/taxbridge/taxbridge-api/internal/client/aws"
	"github.com/taxbridge/taxbridge-api/internal/client/taxcompliance"
	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/handlers"
	"github.com/taxbridge/taxbridge-api/internal/helpers"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/middleware"
	"github.com/taxbridge/taxbridge-api/internal/repository/addresscache"
	"github.com/taxbridge/taxbridge-api/internal/repository/order"
	"github.com/taxbridge/taxbridge-api/internal/services"
)

// Handler Definitions
var (
	orderTaxHandler    *handlers.OrderTaxHandler
	certificateHandler *handlers.CertificateHandler
	addressHandler     *handlers.AddressHandler
	healthHandler      *handlers.HealthHandler

	commonServices *handlers.CommonServices

	dbPool *pgxpool.Pool
)

func InitializeHandlers() {
	// Load environment variables from .env file for local development
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// --- Determine and Validate Stage ---
	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = helpers.StageLocal
		log.Printf("Warning: STAGE environment variable not set, defaulting to '%s'", stage)
	}
	if !helpers.IsValidStage(stage) {
		log.Fatalf("Invalid STAGE environment variable: '%s'. Must be one of: %s, %s, %s",
			stage, helpers.StageProd, helpers.StageDev, helpers.StageLocal)
	}

	// --- Initialize Logger (AFTER stage validation) ---
	logger.InitLogger(stage)
	logger.Info("Initializing handlers for stage", zap.String("stage", stage))

	ctx := context.Background()
	cfg := config.FromEnv()
	cfg.Stage = stage

	// --- Initialize AWS Secrets Manager Client ---
	secretsClient, err := awsclient.NewSecretsManagerClient(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize AWS Secrets Manager client", zap.Error(err))
	}

	// --- Database Connection Setup ---
	dsn, err := secretsClient.GetSecretString(ctx, "DATABASE_URL_ARN", "DATABASE_URL")
	if err != nil || dsn == "" {
		logger.Fatal("Failed to get DATABASE_URL", zap.Error(err))
	}
	cfg.DatabaseURL = dsn

	// --- Tax API Credentials ---
	apiKey, err := secretsClient.GetSecretString(ctx, "TAX_API_KEY_ARN", "TAX_API_KEY")
	if err != nil || apiKey == "" {
		logger.Fatal("Failed to get tax API key", zap.Error(err))
	}
	cfg.Tax.APIKey = apiKey
	if cfg.Tax.APILoginID == "" {
		logger.Fatal("TAX_API_LOGIN_ID environment variable is required")
	}

	// --- Resend API Key ---
	resendAPIKey, err := secretsClient.GetSecretString(ctx, "RESEND_API_KEY_ARN", "RESEND_API_KEY")
	if err != nil || resendAPIKey == "" {
		logger.Warn("Failed to get Resend API Key. Email notifications will be disabled.", zap.Error(err))
		resendAPIKey = ""
	}
	cfg.EmailAPIKey = resendAPIKey

	// --- Database Pool Initialization ---
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Unable to parse database DSN", zap.Error(err))
	}
	poolConfig.MaxConns = 20
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Minute * 30
	poolConfig.MaxConnIdleTime = time.Minute * 15

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("Unable to create connection pool with config", zap.Error(err))
	}

	// --- Compliance Client ---
	var complianceClient *taxcompliance.ComplianceClient
	if cfg.Tax.BaseURL != "" {
		complianceClient = taxcompliance.NewComplianceClientWithBaseURL(cfg.Tax.APILoginID, cfg.Tax.APIKey, cfg.Tax.BaseURL)
	} else {
		complianceClient = taxcompliance.NewComplianceClient(cfg.Tax.APILoginID, cfg.Tax.APIKey)
	}

	// --- Repositories ---
	orderRepo := order.NewPostgres(dbPool)
	addressCache := addresscache.NewPostgres(dbPool)

	// --- Services ---
	packageService := services.NewPackageService(cfg.Tax)
	addressService := services.NewAddressService(complianceClient, addressCache, cfg.Tax)
	certificateService := services.NewCertificateService(complianceClient, cfg.Tax)
	emailService := services.NewEmailService(cfg.EmailAPIKey, cfg.EmailFrom, cfg.EmailTo)
	orderService := services.NewOrderTaxService(orderRepo, complianceClient, packageService, addressService, emailService, cfg.Tax)

	commonServices = handlers.NewCommonServices(handlers.CommonServicesConfig{
		OrderService:       orderService,
		CertificateService: certificateService,
		AddressService:     addressService,
		Logger:             logger.Log,
	})

	// --- Handlers ---
	orderTaxHandler = handlers.NewOrderTaxHandler(commonServices, orderService, logger.Log)
	certificateHandler = handlers.NewCertificateHandler(commonServices, certificateService, logger.Log)
	addressHandler = handlers.NewAddressHandler(commonServices, addressService, logger.Log)
	healthHandler = handlers.NewHealthHandler()
}

func InitializeRoutes(router *gin.Engine) {
	// Configure and apply CORS middleware
	router.Use(configureCORS())

	// Add correlation ID middleware for request tracing
	router.Use(middleware.CorrelationIDMiddleware())

	// Add basic request logging
	router.Use(middleware.RequestLoggingMiddleware())

	// Add Swagger endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health for raw lambda url check
	router.GET("/:stage/health", healthHandler.Health)
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("/:order_id/recalculate", orderTaxHandler.Recalculate)
			orders.POST("/:order_id/capture", orderTaxHandler.Capture)
			orders.POST("/:order_id/refund", orderTaxHandler.Refund)
			orders.GET("/:order_id/tax", orderTaxHandler.GetTax)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("/:customer_id/certificates", certificateHandler.ListCertificates)
			customers.POST("/:customer_id/certificates", certificateHandler.AddCertificate)
			customers.DELETE("/:customer_id/certificates/:certificate_id", certificateHandler.DeleteCertificate)
		}

		addresses := v1.Group("/addresses")
		{
			addresses.POST("/verify", addressHandler.VerifyAddress)
		}
	}
}

// Shutdown releases server-held resources.
func Shutdown() {
	if dbPool != nil {
		dbPool.Close()
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	methodsEnv := os.Getenv("CORS_ALLOWED_METHODS")
	if methodsEnv == "" {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	} else {
		methods := strings.Split(methodsEnv, ",")
		for i, method := range methods {
			methods[i] = strings.TrimSpace(method)
		}
		corsConfig.AllowMethods = methods
	}

	headersEnv := os.Getenv("CORS_ALLOWED_HEADERS")
	if headersEnv == "" {
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", "X-Correlation-ID"}
	} else {
		headers := strings.Split(headersEnv, ",")
		for i, header := range headers {
			headers[i] = strings.TrimSpace(header)
		}
		corsConfig.AllowHeaders = headers
	}

	corsConfig.ExposeHeaders = []string{"X-Correlation-ID"}
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}
