package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pennsieve/dashboard-widget-service/internal/errors"
	"github.com/pennsieve/dashboard-widget-service/internal/models"
)

// InvokeAPI is the slice of the Lambda client the relay needs.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Relay delivers a submission to another function.
type Relay interface {
	Send(ctx context.Context, submission models.Submission) (Reply, error)
}

// Reply is what the widget shows after a submission. Async sends never have a body.
type Reply struct {
	Async      bool
	StatusCode int
	Body       string
}

type LambdaRelay struct {
	client       InvokeAPI
	functionName string
	async        bool
}

func NewLambdaRelay(client InvokeAPI, functionName string, async bool) *LambdaRelay {
	return &LambdaRelay{
		client:       client,
		functionName: functionName,
		async:        async,
	}
}

func (r *LambdaRelay) Send(ctx context.Context, submission models.Submission) (Reply, error) {
	if strings.TrimSpace(r.functionName) == "" {
		return Reply{}, errors.ErrRelayNotConfigured
	}

	payload, err := json.Marshal(submission)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", errors.ErrMarshaling, err)
	}

	invocationType := types.InvocationTypeRequestResponse
	if r.async {
		invocationType = types.InvocationTypeEvent
	}

	out, err := r.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(r.functionName),
		InvocationType: invocationType,
		Payload:        payload,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", errors.ErrRelayFailed, err)
	}

	if out.FunctionError != nil {
		return Reply{}, fmt.Errorf("%w: function error %s: %s", errors.ErrRelayFailed,
			aws.ToString(out.FunctionError), strings.TrimSpace(string(out.Payload)))
	}

	status := int(out.StatusCode)
	if !successful(status) {
		return Reply{}, fmt.Errorf("%w: invoke returned status %d", errors.ErrRelayFailed, status)
	}

	if r.async {
		return Reply{Async: true, StatusCode: status}, nil
	}

	return decodeReply(status, out.Payload)
}

// receivers answer with an API Gateway style {statusCode, body}; anything else is shown raw
type receiverResponse struct {
	StatusCode *int   `json:"statusCode"`
	Body       string `json:"body"`
}

// a receiver that answers with a non-2xx statusCode has failed even though the invoke succeeded
func decodeReply(invokeStatus int, payload []byte) (Reply, error) {
	reply := Reply{StatusCode: invokeStatus}

	var resp receiverResponse
	if err := json.Unmarshal(payload, &resp); err == nil && resp.StatusCode != nil {
		reply.StatusCode = *resp.StatusCode
		reply.Body = sanitize(resp.Body)
		if !successful(reply.StatusCode) {
			return Reply{}, fmt.Errorf("%w: receiver returned %d: %s", errors.ErrRelayFailed, reply.StatusCode, reply.Body)
		}
		return reply, nil
	}

	reply.Body = sanitize(string(payload))
	return reply, nil
}

func successful(status int) bool {
	return status >= 200 && status <= 299
}

var policy = bluemonday.StrictPolicy()

// sanitize reduces a reply to plain text. The widget template escapes it again on output.
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}
