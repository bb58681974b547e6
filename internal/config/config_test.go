package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// viper ignores empty environment values, so these fall back to defaults
	t.Setenv("ENV", "")
	t.Setenv("RELAY_FUNCTION", "")
	t.Setenv("RELAY_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, RelayModeSync, cfg.RelayMode)
	assert.Empty(t, cfg.RelayFunction)
	assert.False(t, cfg.IsTest())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RELAY_FUNCTION", "arn:aws:lambda:us-east-1:123456789012:function:request-receiver")
	t.Setenv("RELAY_MODE", "ASYNC")
	t.Setenv("NOTIFY_TOPIC_ARN", "arn:aws:sns:us-east-1:123456789012:approvals")
	t.Setenv("SESSION_HANDLER_ARN", "arn:aws:lambda:us-east-1:123456789012:function:ssm-session-handler")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "TEST", cfg.Env)
	assert.True(t, cfg.IsTest())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "arn:aws:lambda:us-east-1:123456789012:function:request-receiver", cfg.RelayFunction)
	assert.Equal(t, RelayModeAsync, cfg.RelayMode)
	assert.True(t, cfg.RelayAsync())
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:approvals", cfg.NotifyTopicArn)
	assert.Equal(t, "arn:aws:lambda:us-east-1:123456789012:function:ssm-session-handler", cfg.SessionHandlerArn)
}

func TestLoad_SyncModeByDefault(t *testing.T) {
	t.Setenv("RELAY_MODE", "sync")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.RelayAsync())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_InvalidRelayMode(t *testing.T) {
	t.Setenv("RELAY_MODE", "sometimes")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid relay_mode")
}
