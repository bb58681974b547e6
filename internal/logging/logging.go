package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

var level = new(slog.LevelVar)

// Default is the service wide JSON logger. Lambda ships stdout to CloudWatch Logs.
var Default = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

// SetLevel accepts debug, info, warn or error. Anything else leaves the level unchanged.
func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}
}

// ForRequest returns a logger tagged with the Lambda request id, or a generated one
// when running outside the Lambda runtime.
func ForRequest(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return logger.With(slog.String("requestID", lc.AwsRequestID))
	}
	return logger.With(slog.String("requestID", uuid.NewString()))
}
