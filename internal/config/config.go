package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	RelayModeSync  = "sync"
	RelayModeAsync = "async"
)

// Config holds everything the widget and receiver lambdas read from their environment.
type Config struct {
	Env         string `mapstructure:"env"`
	LogLevel    string `mapstructure:"log_level"`
	EndpointURL string `mapstructure:"aws_endpoint_url"`

	// RelayFunction is the name or ARN of the lambda that receives submissions.
	RelayFunction string `mapstructure:"relay_function"`
	RelayMode     string `mapstructure:"relay_mode"`

	NotifyTopicArn string `mapstructure:"notify_topic_arn"`

	// SessionHandlerArn, when set, makes session buttons call a separate handler lambda
	// instead of the widget itself.
	SessionHandlerArn string `mapstructure:"session_handler_arn"`
	SessionDocument   string `mapstructure:"session_document"`
}

// IsTest reports whether the lambda runs against local or docker AWS endpoints.
func (c *Config) IsTest() bool {
	return c.Env == "TEST" || c.Env == "DOCKER"
}

// RelayAsync reports whether submissions are fired without waiting for a reply.
func (c *Config) RelayAsync() bool {
	return c.RelayMode == RelayModeAsync
}

// Load merges an optional widget.yaml with environment variables; environment wins.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("widget")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	cfg.RelayMode = strings.ToLower(strings.TrimSpace(cfg.RelayMode))
	switch cfg.RelayMode {
	case RelayModeSync, RelayModeAsync:
	default:
		return nil, fmt.Errorf("invalid relay_mode %q", cfg.RelayMode)
	}

	return &cfg, nil
}

// every key needs a default so AutomaticEnv picks it up during Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("aws_endpoint_url", "")
	v.SetDefault("relay_function", "")
	v.SetDefault("relay_mode", RelayModeSync)
	v.SetDefault("notify_topic_arn", "")
	v.SetDefault("session_handler_arn", "")
	v.SetDefault("session_document", "")
}
