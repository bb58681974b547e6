package widget

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/pennsieve/dashboard-widget-service/internal/container"
	"github.com/pennsieve/dashboard-widget-service/internal/errors"
	"github.com/pennsieve/dashboard-widget-service/internal/forms"
	"github.com/pennsieve/dashboard-widget-service/internal/logging"
	"github.com/pennsieve/dashboard-widget-service/internal/models"
	"github.com/pennsieve/dashboard-widget-service/internal/render"
)

var logger = logging.Default

// Widget is a CloudWatch custom widget: a describe text plus a router of button actions.
type Widget struct {
	name        string
	description string
	deps        container.DependencyContainer
	router      ActionRouter
}

// Handle returns a models.DescribeResponse for describe requests and an HTML string
// otherwise. Downstream failures are rendered into the HTML, never returned.
func (w *Widget) Handle(ctx context.Context, event models.WidgetEvent) (any, error) {
	log := logging.ForRequest(ctx, logger).With("widget", w.name)

	if event.Describe {
		log.Info("describe request")
		return models.DescribeResponse{Markdown: w.description}, nil
	}

	req := &Request{
		Event:    event,
		Params:   event.Params(),
		Forms:    forms.Normalize(event.FormsAll()),
		Endpoint: invokedFunctionArn(ctx),
		Deps:     w.deps,
		Logger:   log,
	}
	if event.WidgetContext != nil {
		log = log.With("dashboard", event.WidgetContext.DashboardName)
		req.Logger = log
	}

	log.Info("widget invoked", "action", req.Params.Action, "rowId", req.Params.RowId.String())

	html, err := w.router.Start(ctx, req)
	if err != nil {
		log.Error(errors.HandlerError(w.name, err))
		return nil, err
	}
	return html, nil
}

// LambdaHandler decodes the raw event before handing it to the widget, matching how
// CloudWatch invokes custom widget functions directly with JSON.
func (w *Widget) LambdaHandler(ctx context.Context, event json.RawMessage) (any, error) {
	var widgetEvent models.WidgetEvent
	if len(event) > 0 {
		if err := json.Unmarshal(event, &widgetEvent); err != nil {
			logger.Error(errors.HandlerError(w.name, err))
			return nil, fmt.Errorf("%w: %w", errors.ErrUnmarshaling, err)
		}
	}
	return w.Handle(ctx, widgetEvent)
}

// the dashboard calls buttons back on this function's own ARN
func invokedFunctionArn(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.InvokedFunctionArn
	}
	return ""
}

func backButton(endpoint string) (render.Button, error) {
	return render.NewButton("Back", "btn", endpoint, models.ActionParams{Action: ActionBack})
}

// Shared action names.
const (
	ActionBack = "back"
)

// describeOrError still answers describe requests when the dependencies could not be built,
// so the console can show the widget documentation while configuration is broken.
func describeOrError(event json.RawMessage, description string, err error) (any, error) {
	var widgetEvent models.WidgetEvent
	if jsonErr := json.Unmarshal(event, &widgetEvent); jsonErr == nil && widgetEvent.Describe {
		return models.DescribeResponse{Markdown: description}, nil
	}
	return nil, err
}
