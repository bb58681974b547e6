package test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pennsieve/dashboard-widget-service/internal/config"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// LocalConfig returns a TEST configuration pointed at the local AWS endpoint, skipping the
// test when no endpoint is available.
func LocalConfig(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	endpoint := getEnv("AWS_ENDPOINT_URL", "")
	if endpoint == "" {
		t.Skip("AWS_ENDPOINT_URL not set, skipping integration test")
	}

	return &config.Config{
		Env:         "TEST",
		LogLevel:    "debug",
		EndpointURL: endpoint,
		RelayMode:   config.RelayModeSync,
	}
}

// CreateTopic creates a uniquely named SNS topic that is deleted when the test ends.
func CreateTopic(t *testing.T, client *sns.Client) string {
	t.Helper()
	ctx := context.Background()

	out, err := client.CreateTopic(ctx, &sns.CreateTopicInput{
		Name: aws.String("widget-test-" + GenerateTestId()),
	})
	require.NoError(t, err)

	topicArn := aws.ToString(out.TopicArn)
	t.Cleanup(func() {
		_, _ = client.DeleteTopic(ctx, &sns.DeleteTopicInput{TopicArn: aws.String(topicArn)})
	})
	return topicArn
}

// GenerateTestId returns a short id safe for AWS resource names.
func GenerateTestId() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
