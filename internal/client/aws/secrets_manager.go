package aws

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/logger"
)

// SecretsManagerClient wraps the AWS Secrets Manager client.
type SecretsManagerClient struct {
	svc *secretsmanager.Client
}

// NewSecretsManagerClient creates and initializes a new Secrets Manager
// client using the default AWS configuration chain.
func NewSecretsManagerClient(ctx context.Context) (*SecretsManagerClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &SecretsManagerClient{svc: secretsmanager.NewFromConfig(cfg)}, nil
}

// GetSecretString fetches a secret string using an ARN held in the
// environment variable secretArnEnvVar. If the ARN is unset or the fetch
// fails, it falls back to reading the value directly from fallbackEnvVar.
func (c *SecretsManagerClient) GetSecretString(ctx context.Context, secretArnEnvVar, fallbackEnvVar string) (string, error) {
	secretArn := os.Getenv(secretArnEnvVar)
	if secretArn != "" {
		result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretArn),
		})
		if err == nil && result.SecretString != nil && *result.SecretString != "" {
			return *result.SecretString, nil
		}
		if err != nil {
			logger.Warn("failed to fetch secret from Secrets Manager, falling back to environment",
				zap.String("secretArnEnvVar", secretArnEnvVar),
				zap.Error(err))
		}
	}

	if fallbackEnvVar != "" {
		if v := os.Getenv(fallbackEnvVar); v != "" {
			return v, nil
		}
	}

	return "", fmt.Errorf("secret not available via %s or %s", secretArnEnvVar, fallbackEnvVar)
}
