package utils

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/pennsieve/dashboard-widget-service/internal/config"
)

// LoadAWSConfig loads AWS configuration with test-aware settings.
// In TEST or DOCKER environments with an endpoint configured, every client is pointed at
// the local endpoint (localstack) with static credentials.
func LoadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	if cfg.IsTest() && cfg.EndpointURL != "" {
		return awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion("us-east-1"),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
			awsconfig.WithBaseEndpoint(cfg.EndpointURL),
		)
	}

	return awsconfig.LoadDefaultConfig(ctx)
}

// RedactMFA keeps MFA codes out of log lines.
func RedactMFA(code string) slog.Attr {
	if strings.TrimSpace(code) == "" {
		return slog.String("mfa_code", "")
	}
	return slog.String("mfa_code", "[redacted]")
}
