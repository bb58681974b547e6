package widget

import (
	"context"
	"encoding/json"

	"github.com/pennsieve/dashboard-widget-service/internal/container"
	"github.com/pennsieve/dashboard-widget-service/internal/errors"
	"github.com/pennsieve/dashboard-widget-service/internal/models"
	"github.com/pennsieve/dashboard-widget-service/internal/render"
)

const ActionStartSession = "start_ssm"

// NewSessionWidget builds the client sessions widget: one row per client instance with a
// button that starts an SSM Session Manager session.
func NewSessionWidget(deps container.DependencyContainer) *Widget {
	router := NewActionRouter()
	router.Handle(ActionStartSession, startSessionHandler)
	router.Default(sessionDefaultHandler)

	return &Widget{
		name:        "SessionWidget",
		description: render.SessionDescription,
		deps:        deps,
		router:      router,
	}
}

// SessionWidgetHandler is the Lambda entry point for the sessions widget. It also serves as
// the separate session handler when buttons are pointed at SESSION_HANDLER_ARN.
func SessionWidgetHandler(ctx context.Context, event json.RawMessage) (any, error) {
	deps, err := container.Production(ctx)
	if err != nil {
		logger.Error(errors.HandlerError("SessionWidgetHandler", err))
		return describeOrError(event, render.SessionDescription, err)
	}
	return NewSessionWidget(deps).LambdaHandler(ctx, event)
}

// a separate session handler is called with only {"instance": ...}
func sessionDefaultHandler(ctx context.Context, req *Request) (string, error) {
	if req.Params.Action == "" && req.Params.Instance != "" {
		return startSessionHandler(ctx, req)
	}
	return sessionTableHandler(ctx, req)
}

func sessionTableHandler(ctx context.Context, req *Request) (string, error) {
	dir := req.Deps.Directory()
	handlerArn := req.Deps.Config().SessionHandlerArn

	rows := make([]render.SessionTableRow, 0, len(dir.Instances))
	for _, r := range dir.Instances {
		endpoint := req.Endpoint
		params := models.ActionParams{Action: ActionStartSession, RowId: r.Id}
		if handlerArn != "" {
			endpoint = handlerArn
			params = models.ActionParams{Instance: r.Instance}
		}

		start, err := render.NewButton("Start SSM", "btn", endpoint, params)
		if err != nil {
			return "", err
		}
		rows = append(rows, render.SessionTableRow{
			Client:   r.Client,
			Instance: r.Instance,
			Start:    start,
		})
	}

	return render.SessionTable(render.SessionTableView{Rows: rows})
}

func startSessionHandler(ctx context.Context, req *Request) (string, error) {
	handlerName := "startSessionHandler"
	dir := req.Deps.Directory()

	// only instances listed in the directory can be started from the dashboard
	var row models.InstanceRow
	var found bool
	if req.Params.Instance != "" {
		row, found = dir.InstanceById(req.Params.Instance)
	} else if !req.Params.RowId.IsEmpty() {
		row, found = dir.Instance(req.Params.RowId)
	}
	if !found {
		if req.Params.Instance == "" && req.Params.RowId.IsEmpty() {
			req.Logger.Warn(errors.HandlerError(handlerName, errors.ErrMissingRowId))
			return sessionTableHandler(ctx, req)
		}
		req.Logger.Warn(errors.HandlerError(handlerName, errors.ErrRowNotFound),
			"rowId", req.Params.RowId.String(), "instance", req.Params.Instance)
		back, err := backButton(req.Endpoint)
		if err != nil {
			return "", err
		}
		return render.Message("Unknown instance", errors.ErrRowNotFound.Error(), &back)
	}

	back, err := backButton(req.Endpoint)
	if err != nil {
		return "", err
	}

	starter := req.Deps.SessionStarter()
	if starter == nil {
		return render.Message(errors.ErrSessionFailed.Error(), "session manager is not configured", &back)
	}

	s, err := starter.Start(ctx, row.Instance)
	if err != nil {
		req.Logger.Error(errors.HandlerError(handlerName, err), "instance", row.Instance)
		return render.Message(errors.ErrSessionFailed.Error(), err.Error(), &back)
	}

	req.Logger.Info("session started", "instance", row.Instance, "sessionId", s.SessionId)
	return render.SessionStarted(render.SessionStartedView{
		InstanceId: s.InstanceId,
		SessionId:  s.SessionId,
		StreamUrl:  s.StreamUrl,
		Back:       back,
	})
}
