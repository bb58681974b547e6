package widget

import (
	"context"
	"log/slog"

	"github.com/pennsieve/dashboard-widget-service/internal/container"
	"github.com/pennsieve/dashboard-widget-service/internal/errors"
	"github.com/pennsieve/dashboard-widget-service/internal/models"
)

// Request is one widget invocation after the event has been decoded.
type Request struct {
	Event    models.WidgetEvent
	Params   models.ActionParams
	Forms    []map[string]string
	Endpoint string
	Deps     container.DependencyContainer
	Logger   *slog.Logger
}

type ActionHandlerFunc func(context.Context, *Request) (string, error)

// ActionRouter dispatches on the action name carried by the clicked button.
type ActionRouter interface {
	Handle(string, ActionHandlerFunc)
	Default(ActionHandlerFunc)
	Start(context.Context, *Request) (string, error)
}

type WidgetActionRouter struct {
	routes   map[string]ActionHandlerFunc
	fallback ActionHandlerFunc
}

func NewActionRouter() ActionRouter {
	return &WidgetActionRouter{
		routes: make(map[string]ActionHandlerFunc),
	}
}

func (r *WidgetActionRouter) Handle(action string, handler ActionHandlerFunc) {
	r.routes[action] = handler
}

// Default handles the initial render, back buttons and unknown actions.
func (r *WidgetActionRouter) Default(handler ActionHandlerFunc) {
	r.fallback = handler
}

func (r *WidgetActionRouter) Start(ctx context.Context, req *Request) (string, error) {
	if f, ok := r.routes[req.Params.Action]; ok {
		return f(ctx, req)
	}
	if r.fallback == nil {
		return "", errors.ErrUnsupportedAction
	}
	if req.Params.Action != "" {
		req.Logger.Debug("no route for action, rendering default view", "action", req.Params.Action)
	}
	return r.fallback(ctx, req)
}
