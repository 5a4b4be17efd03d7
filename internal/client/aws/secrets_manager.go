package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"go.uber.org/zap"
)

// SecretsAPI is the subset of the Secrets Manager client used here.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerClient wraps the AWS Secrets Manager client.
type SecretsManagerClient struct {
	svc SecretsAPI
}

// NewSecretsManagerClient uses the default AWS configuration chain (environment, shared config, IAM role).
func NewSecretsManagerClient(ctx context.Context) (*SecretsManagerClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &SecretsManagerClient{svc: secretsmanager.NewFromConfig(cfg)}, nil
}

// NewSecretsManagerClientWithAPI builds a client over an existing API implementation.
func NewSecretsManagerClientWithAPI(svc SecretsAPI) *SecretsManagerClient {
	return &SecretsManagerClient{svc: svc}
}

// GetSecretString fetches secretArn from Secrets Manager, falling back to the
// fallbackEnvVar environment variable when the ARN is empty or the fetch fails.
// A secret stored as a single-key JSON object yields that key's value.
func (c *SecretsManagerClient) GetSecretString(ctx context.Context, secretArn, fallbackEnvVar string) (string, error) {
	if secretArn != "" && c != nil && c.svc != nil {
		result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretArn),
		})
		if err == nil && result.SecretString != nil && *result.SecretString != "" {
			return unwrapSingleKey(*result.SecretString), nil
		}
		logger.Warn("Failed to retrieve secret from Secrets Manager, falling back to env var",
			zap.String("secret_arn", secretArn),
			zap.String("fallback_env_var", fallbackEnvVar),
			zap.Error(err),
		)
	}

	if fallbackEnvVar != "" {
		if v := os.Getenv(fallbackEnvVar); v != "" {
			logger.Debug("Using secret value from environment", zap.String("env_var", fallbackEnvVar))
			return v, nil
		}
	}
	return "", fmt.Errorf("secret not found using ARN %q or env var %q", secretArn, fallbackEnvVar)
}

func unwrapSingleKey(raw string) string {
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err == nil && len(m) == 1 {
		for _, v := range m {
			return v
		}
	}
	return raw
}
