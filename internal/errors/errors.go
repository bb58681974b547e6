package errors

import (
	"errors"
	"fmt"
)

// Widget errors
var ErrUnsupportedAction = errors.New("unsupported widget action")
var ErrMissingRowId = errors.New("missing row id")
var ErrRowNotFound = errors.New("row not found")

// Downstream errors - these are rendered inline by widgets, never returned to the runtime
var ErrRelayNotConfigured = errors.New("relay target not configured")
var ErrRelayFailed = errors.New("downstream call failed")
var ErrSessionFailed = errors.New("failed to start SSM session")
var ErrTopicNotConfigured = errors.New("notification topic not configured")
var ErrPublishFailed = errors.New("error publishing notification")

// Common errors used across handlers
var ErrMarshaling = errors.New("error marshaling item")
var ErrUnmarshaling = errors.New("error unmarshaling event")
var ErrConfig = errors.New("error loading configuration")

// HandlerError formats error messages for handlers
func HandlerError(handlerName string, handlerError error) string {
	return fmt.Sprintf("%s: %s", handlerName, handlerError.Error())
}
