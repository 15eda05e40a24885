package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awsclient "github.com/taxbridge/taxbridge-api/internal/client/aws"
	"github.com/taxbridge/taxbridge-api/internal/client/taxcompliance"
	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/helpers"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/repository/order"
	"github.com/taxbridge/taxbridge-api/internal/services"
)

// Application holds all dependencies for the Lambda handler
type Application struct {
	reconciler   *services.ReconciliationService
	emailService *services.EmailService
	requeue      *awsclient.SQSPublisher
	batchSize    int32
	logger       *zap.Logger
}

// HandleRequest processes one page of reconciliation candidates. When more
// candidates remain it requeues itself via SQS so each invocation stays
// within the Lambda time budget.
func (app *Application) HandleRequest(ctx context.Context) error {
	app.logger.Info("Starting reconciliation execution")

	results, more, err := app.reconciler.ProcessPage(ctx, app.batchSize)
	if err != nil {
		app.logger.Error("Error processing reconciliation page", zap.Error(err))
		return fmt.Errorf("error processing reconciliation page: %w", err)
	}

	app.logger.Info("Reconciliation results",
		zap.Int("processed", results.Processed),
		zap.Int("repaired", results.Repaired),
		zap.Int("removed_packages", results.RemovedPackages),
		zap.Int("failed", results.Failed),
		zap.Bool("more", more),
	)
	app.emailService.SendReconciliationSummary(ctx, results)

	if more && app.requeue != nil {
		if err := app.requeue.Publish(ctx, "reconcile-next-page"); err != nil {
			app.logger.Error("Failed to requeue next page", zap.Error(err))
			return err
		}
	}
	return nil
}

// LocalHandleRequest loops through every page, for local runs without SQS.
func (app *Application) LocalHandleRequest(ctx context.Context) error {
	for {
		results, more, err := app.reconciler.ProcessPage(ctx, app.batchSize)
		if err != nil {
			return err
		}
		app.logger.Info("Reconciliation page results",
			zap.Int("processed", results.Processed),
			zap.Int("repaired", results.Repaired),
			zap.Int("removed_packages", results.RemovedPackages),
			zap.Int("failed", results.Failed),
		)
		if !more {
			return nil
		}
	}
}

func main() {
	// Load .env file for local development
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v. Proceeding with environment variables/secrets.", err)
	}

	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = helpers.StageLocal
		log.Printf("Warning: STAGE environment variable not set, defaulting to '%s'", stage)
	}
	if !helpers.IsValidStage(stage) {
		log.Fatalf("Invalid STAGE environment variable: '%s'. Must be one of: %s, %s, %s",
			stage, helpers.StageProd, helpers.StageDev, helpers.StageLocal)
	}

	// Initialize logger
	logger.InitLogger(stage)
	logger.Info("Lambda Cold Start: Initializing reconciler for stage", zap.String("stage", stage))
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()
	cfg := config.FromEnv()
	cfg.Stage = stage

	// Initialize AWS Secrets Manager Client
	secretsClient, err := awsclient.NewSecretsManagerClient(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize AWS Secrets Manager client", zap.Error(err))
	}

	// Database Connection Setup
	dsn, err := secretsClient.GetSecretString(ctx, "DATABASE_URL_ARN", "DATABASE_URL")
	if err != nil || dsn == "" {
		logger.Fatal("Failed to get DATABASE_URL", zap.Error(err))
	}

	// Tax API credentials
	apiKey, err := secretsClient.GetSecretString(ctx, "TAX_API_KEY_ARN", "TAX_API_KEY")
	if err != nil || apiKey == "" {
		logger.Fatal("Failed to get tax API key", zap.Error(err))
	}
	cfg.Tax.APIKey = apiKey
	if cfg.Tax.APILoginID == "" {
		logger.Fatal("TAX_API_LOGIN_ID environment variable is required")
	}

	// Database Pool Initialization
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Fatal("Unable to parse database DSN", zap.Error(err))
	}
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 15
	connPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("Unable to create connection pool", zap.Error(err))
	}

	// Resend API configuration; notifications are optional for the job
	resendAPIKey, err := secretsClient.GetSecretString(ctx, "RESEND_API_KEY_ARN", "RESEND_API_KEY")
	if err != nil || resendAPIKey == "" {
		logger.Warn("Failed to get RESEND_API_KEY, summary emails disabled", zap.Error(err))
		resendAPIKey = ""
	}

	// Compliance client
	var complianceClient *taxcompliance.ComplianceClient
	if cfg.Tax.BaseURL != "" {
		complianceClient = taxcompliance.NewComplianceClientWithBaseURL(cfg.Tax.APILoginID, cfg.Tax.APIKey, cfg.Tax.BaseURL)
	} else {
		complianceClient = taxcompliance.NewComplianceClient(cfg.Tax.APILoginID, cfg.Tax.APIKey)
	}

	// Create services
	orderRepo := order.NewPostgres(connPool)
	packageService := services.NewPackageService(cfg.Tax)
	reconciler := services.NewReconciliationService(orderRepo, complianceClient, packageService)
	emailService := services.NewEmailService(resendAPIKey, cfg.EmailFrom, cfg.EmailTo)

	// SQS requeue is only wired in deployed stages
	var requeue *awsclient.SQSPublisher
	if stage != helpers.StageLocal && cfg.ReconcilerQueueURL != "" {
		requeue, err = awsclient.NewSQSPublisher(ctx, cfg.ReconcilerQueueURL)
		if err != nil {
			logger.Fatal("Failed to initialize SQS publisher", zap.Error(err))
		}
	}

	app := &Application{
		reconciler:   reconciler,
		emailService: emailService,
		requeue:      requeue,
		batchSize:    cfg.Tax.ReconcileBatchSize,
		logger:       logger.Log,
	}

	if stage == helpers.StageLocal {
		// Local development - run to completion
		if err := app.LocalHandleRequest(ctx); err != nil {
			logger.Fatal("Error in LocalHandleRequest", zap.Error(err))
		}
	} else {
		// AWS Lambda environment
		lambda.Start(app.HandleRequest)
	}
}
