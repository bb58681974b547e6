package receiver

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/pennsieve/dashboard-widget-service/internal/container"
	"github.com/pennsieve/dashboard-widget-service/internal/errors"
	"github.com/pennsieve/dashboard-widget-service/internal/logging"
	"github.com/pennsieve/dashboard-widget-service/internal/models"
	"github.com/pennsieve/dashboard-widget-service/internal/utils"
)

var logger = logging.Default

// Received echoes a submission back to the caller. Only the presence of an MFA code is
// reported.
type Received struct {
	Client         string `json:"client"`
	Account        string `json:"account"`
	RequesterEmail string `json:"requester_email"`
	ApproverEmail  string `json:"approver_email"`
	MfaCodePresent bool   `json:"mfa_code_present"`
}

type acknowledgement struct {
	Ok        bool      `json:"ok"`
	Received  *Received `json:"received,omitempty"`
	MessageId string    `json:"messageId,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func NewReceived(s models.Submission) Received {
	return Received{
		Client:         s.Client,
		Account:        s.Account,
		RequesterEmail: s.RequesterEmail,
		ApproverEmail:  s.ApproverEmail,
		MfaCodePresent: s.MfaCode != "",
	}
}

// AcknowledgeHandler logs the relayed submission and answers with what it received.
func AcknowledgeHandler(ctx context.Context, submission models.Submission) (events.APIGatewayV2HTTPResponse, error) {
	handlerName := "AcknowledgeHandler"
	log := logging.ForRequest(ctx, logger)

	log.Info("submission received",
		"client", submission.Client,
		"account", submission.Account,
		"requester_email", submission.RequesterEmail,
		"approver_email", submission.ApproverEmail,
		utils.RedactMFA(submission.MfaCode))

	received := NewReceived(submission)
	return respond(handlerName, http.StatusOK, acknowledgement{Ok: true, Received: &received}), nil
}

type NotifyReceiver struct {
	deps container.DependencyContainer
}

func NewNotifyReceiver(deps container.DependencyContainer) *NotifyReceiver {
	return &NotifyReceiver{deps: deps}
}

// Handle publishes the submission to the notification topic.
func (n *NotifyReceiver) Handle(ctx context.Context, submission models.Submission) (events.APIGatewayV2HTTPResponse, error) {
	handlerName := "NotifyHandler"
	log := logging.ForRequest(ctx, logger)

	notifier := n.deps.Notifier()
	if notifier == nil {
		log.Error(errors.HandlerError(handlerName, errors.ErrTopicNotConfigured))
		return respond(handlerName, http.StatusInternalServerError,
			acknowledgement{Error: errors.ErrTopicNotConfigured.Error()}), nil
	}

	messageId, err := notifier.Notify(ctx, submission)
	if err != nil {
		log.Error(errors.HandlerError(handlerName, err), "client", submission.Client)
		status := http.StatusBadGateway
		if stderrors.Is(err, errors.ErrTopicNotConfigured) {
			status = http.StatusInternalServerError
		}
		return respond(handlerName, status, acknowledgement{Error: err.Error()}), nil
	}

	log.Info("notification published",
		"client", submission.Client,
		"approver_email", submission.ApproverEmail,
		"messageId", messageId)

	return respond(handlerName, http.StatusOK, acknowledgement{Ok: true, MessageId: messageId}), nil
}

// NotifyHandler is the Lambda entry point for the notifying receiver.
func NotifyHandler(ctx context.Context, submission models.Submission) (events.APIGatewayV2HTTPResponse, error) {
	deps, err := container.Production(ctx)
	if err != nil {
		logger.Error(errors.HandlerError("NotifyHandler", err))
		return respond("NotifyHandler", http.StatusInternalServerError,
			acknowledgement{Error: errors.ErrConfig.Error()}), nil
	}
	return NewNotifyReceiver(deps).Handle(ctx, submission)
}

func respond(handlerName string, status int, body acknowledgement) events.APIGatewayV2HTTPResponse {
	m, err := json.Marshal(body)
	if err != nil {
		logger.Error(errors.HandlerError(handlerName, err))
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       errors.HandlerError(handlerName, errors.ErrMarshaling),
		}
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(m),
	}
}
