package widget_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pennsieve/dashboard-widget-service/internal/container"
	"github.com/pennsieve/dashboard-widget-service/internal/errors"
	"github.com/pennsieve/dashboard-widget-service/internal/handler/widget"
	"github.com/pennsieve/dashboard-widget-service/internal/models"
	"github.com/pennsieve/dashboard-widget-service/internal/relay"
)

const widgetArn = "arn:aws:lambda:us-east-1:123456789012:function:approval-widget"

// MockRelay is a mock implementation of the relay.Relay interface
type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Send(ctx context.Context, submission models.Submission) (relay.Reply, error) {
	args := m.Called(ctx, submission)
	return args.Get(0).(relay.Reply), args.Error(1)
}

func lambdaContext() context.Context {
	return lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{
		AwsRequestID:       "widget-test",
		InvokedFunctionArn: widgetArn,
	})
}

func invoke(t *testing.T, w *widget.Widget, ctx context.Context, event string) any {
	t.Helper()
	out, err := w.LambdaHandler(ctx, json.RawMessage(event))
	require.NoError(t, err)
	return out
}

func invokeHTML(t *testing.T, w *widget.Widget, ctx context.Context, event string) string {
	t.Helper()
	out := invoke(t, w, ctx, event)
	html, ok := out.(string)
	require.True(t, ok, "expected an HTML string, got %T", out)
	return html
}

func TestApprovalWidget_Describe(t *testing.T) {
	w := widget.NewApprovalWidget(container.NewMockContainer())

	out := invoke(t, w, lambdaContext(), `{"describe": true}`)

	resp, ok := out.(models.DescribeResponse)
	require.True(t, ok, "describe must return a documentation object, got %T", out)
	assert.Contains(t, resp.Markdown, "Approver")
}

func TestApprovalWidget_InitialTable(t *testing.T) {
	w := widget.NewApprovalWidget(container.NewMockContainer())

	html := invokeHTML(t, w, lambdaContext(), `{"widgetContext": {"dashboardName": "approvals"}}`)

	assert.Contains(t, html, `value="Acme Corp"`)
	assert.Contains(t, html, `value="Globex LLC"`)
	assert.Contains(t, html, `name="r_1003_mfa"`)
	assert.Contains(t, html, `endpoint="`+widgetArn+`"`)
	assert.Contains(t, html, `{"action":"review","rowId":"1001"}`)
	assert.Equal(t, 3, strings.Count(html, ">Review</a>"))
}

func TestApprovalWidget_EmptyEventAndBack(t *testing.T) {
	w := widget.NewApprovalWidget(container.NewMockContainer())

	for _, event := range []string{``, `{}`, `{"widgetContext": {"params": {"action": "back"}}}`, `{"action": "unheard_of"}`} {
		html := invokeHTML(t, w, lambdaContext(), event)
		assert.Contains(t, html, "<table", "event %q should render the table", event)
	}
}

func TestApprovalWidget_ReviewMissingRowIdRendersTable(t *testing.T) {
	w := widget.NewApprovalWidget(container.NewMockContainer())

	html := invokeHTML(t, w, lambdaContext(), `{"widgetContext": {"params": {"action": "review"}}}`)
	assert.Contains(t, html, "<table")
	assert.NotContains(t, html, "Review Request")
}

func TestApprovalWidget_ReviewKnownRow(t *testing.T) {
	w := widget.NewApprovalWidget(container.NewMockContainer())

	event := `{
		"widgetContext": {
			"params": {"action": "review", "rowId": 1001},
			"forms": {"all": {
				"r_1001_client": "Acme <Corp>",
				"r_1001_account": "jsmith",
				"r_1001_requester": "dave@example.com",
				"r_1001_approver": "alice@example.com",
				"r_1001_mfa": "123456",
				"r_1002_client": "Globex LLC"
			}}
		}
	}`
	html := invokeHTML(t, w, lambdaContext(), event)

	assert.Contains(t, html, "Review Request (Row 1001)")
	assert.Contains(t, html, "<code>Acme &lt;Corp&gt;</code>")
	assert.Contains(t, html, "<code>jsmith</code>")
	assert.Contains(t, html, "<code>Dave Miller (dave@example.com)</code>")
	assert.Contains(t, html, "<code>Alice Smith (alice@example.com)</code>")
	assert.Contains(t, html, "<code>123456</code>")
	assert.NotContains(t, html, "Globex LLC")
	assert.Contains(t, html, `"action":"submit"`)
	assert.Contains(t, html, `"approver_email":"alice@example.com"`)
	assert.Contains(t, html, `"client":"Acme \u003cCorp\u003e"`)
}

func TestApprovalWidget_ReviewFallsBackToRowValues(t *testing.T) {
	w := widget.NewApprovalWidget(container.NewMockContainer())

	// forms as an array; client and account were not posted
	event := `{
		"widgetContext": {
			"params": {"action": "review", "rowId": "1002"},
			"forms": {"all": [{"r_1002_approver": "carol@example.com"}, {"r_1002_mfa": 999000}]}
		}
	}`
	html := invokeHTML(t, w, lambdaContext(), event)

	assert.Contains(t, html, "<code>Globex LLC</code>")
	assert.Contains(t, html, "<code>adoe</code>")
	assert.Contains(t, html, "<code>Carol White (carol@example.com)</code>")
	assert.Contains(t, html, "<code>999000</code>")
}

func TestApprovalWidget_ReviewUnknownRowRendersEmptyFields(t *testing.T) {
	w := widget.NewApprovalWidget(container.NewMockContainer())

	event := `{
		"widgetContext": {
			"params": {"action": "review", "rowId": 4242},
			"forms": {"all": {"r_1001_client": "Acme Corp", "r_4242_client": "Injected"}}
		}
	}`
	html := invokeHTML(t, w, lambdaContext(), event)

	assert.Contains(t, html, "Row 4242 was not found.")
	assert.Equal(t, 5, strings.Count(html, "<code></code>"))
	assert.NotContains(t, html, "Acme Corp")
	assert.NotContains(t, html, "Injected")
	assert.NotContains(t, html, ">Submit</a>")
}

func TestApprovalWidget_SubmitRelaysOnce(t *testing.T) {
	ctx := lambdaContext()
	mockRelay := new(MockRelay)
	deps := container.NewMockContainer()
	deps.MockRelay = mockRelay

	expected := models.Submission{
		Client:         "Acme Corp",
		Account:        "jsmith",
		RequesterEmail: "dave@example.com",
		ApproverEmail:  "alice@example.com",
		MfaCode:        "123456",
	}
	mockRelay.On("Send", ctx, expected).Return(relay.Reply{StatusCode: 200, Body: `{"ok": true}`}, nil).Once()

	event := `{
		"widgetContext": {
			"params": {
				"action": "submit", "rowId": "1001",
				"client": "Acme Corp", "account": "jsmith",
				"requester_email": "dave@example.com", "approver_email": "alice@example.com",
				"mfa_code": "123456"
			}
		}
	}`
	html := invokeHTML(t, widget.NewApprovalWidget(deps), ctx, event)

	assert.Contains(t, html, "Request Submitted (Row 1001)")
	assert.Contains(t, html, "<code>200</code>")
	assert.Contains(t, html, "{&quot;ok&quot;: true}")
	mockRelay.AssertExpectations(t)
	mockRelay.AssertNumberOfCalls(t, "Send", 1)
}

func TestApprovalWidget_SubmitFillsGapsFromForms(t *testing.T) {
	ctx := lambdaContext()
	mockRelay := new(MockRelay)
	deps := container.NewMockContainer()
	deps.MockRelay = mockRelay

	mockRelay.On("Send", ctx, models.Submission{
		Client:        "Initech",
		Account:       "mpeter",
		ApproverEmail: "bob@example.com",
		MfaCode:       "000111",
	}).Return(relay.Reply{Async: true, StatusCode: 202}, nil).Once()

	event := `{
		"widgetContext": {
			"params": {"action": "submit", "rowId": 1003, "approver_email": "bob@example.com"},
			"forms": {"all": {"r_1003_mfa": "000111"}}
		}
	}`
	html := invokeHTML(t, widget.NewApprovalWidget(deps), ctx, event)

	assert.Contains(t, html, "was sent to the approval service")
	mockRelay.AssertExpectations(t)
}

func TestApprovalWidget_DuplicateSubmitsRelayTwice(t *testing.T) {
	ctx := lambdaContext()
	mockRelay := new(MockRelay)
	deps := container.NewMockContainer()
	deps.MockRelay = mockRelay
	mockRelay.On("Send", ctx, mock.Anything).Return(relay.Reply{StatusCode: 200}, nil)

	w := widget.NewApprovalWidget(deps)
	event := `{"widgetContext": {"params": {"action": "submit", "rowId": "1001"}}}`
	invokeHTML(t, w, ctx, event)
	invokeHTML(t, w, ctx, event)

	mockRelay.AssertNumberOfCalls(t, "Send", 2)
}

func TestApprovalWidget_SubmitFailureRendersInline(t *testing.T) {
	ctx := lambdaContext()
	mockRelay := new(MockRelay)
	deps := container.NewMockContainer()
	deps.MockRelay = mockRelay

	failure := fmt.Errorf("%w: connection reset <peer>", errors.ErrRelayFailed)
	mockRelay.On("Send", ctx, mock.Anything).Return(relay.Reply{}, failure).Once()

	html := invokeHTML(t, widget.NewApprovalWidget(deps), ctx,
		`{"widgetContext": {"params": {"action": "submit", "rowId": "1002"}}}`)

	assert.Contains(t, html, "Submission Failed (Row 1002)")
	assert.Contains(t, html, "downstream call failed: connection reset &lt;peer&gt;")
	assert.Contains(t, html, ">Back</a>")
	mockRelay.AssertNumberOfCalls(t, "Send", 1)
}

func TestApprovalWidget_SubmitUnknownRowDoesNotRelay(t *testing.T) {
	ctx := lambdaContext()
	mockRelay := new(MockRelay)
	deps := container.NewMockContainer()
	deps.MockRelay = mockRelay

	html := invokeHTML(t, widget.NewApprovalWidget(deps), ctx,
		`{"widgetContext": {"params": {"action": "submit", "rowId": "31337", "client": "Evil"}}}`)

	assert.Contains(t, html, errors.ErrRowNotFound.Error())
	mockRelay.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestApprovalWidget_SubmitWithoutRelay(t *testing.T) {
	html := invokeHTML(t, widget.NewApprovalWidget(container.NewMockContainer()), lambdaContext(),
		`{"widgetContext": {"params": {"action": "submit", "rowId": "1001"}}}`)

	assert.Contains(t, html, errors.ErrRelayNotConfigured.Error())
}

func TestApprovalWidget_MalformedEvent(t *testing.T) {
	w := widget.NewApprovalWidget(container.NewMockContainer())

	_, err := w.LambdaHandler(lambdaContext(), json.RawMessage(`{"rowId": {"nested": true}}`))
	assert.ErrorIs(t, err, errors.ErrUnmarshaling)
}

func TestApprovalWidget_OutsideLambdaHasEmptyEndpoint(t *testing.T) {
	w := widget.NewApprovalWidget(container.NewMockContainer())

	html := invokeHTML(t, w, context.Background(), `{}`)
	assert.Contains(t, html, `endpoint=""`)
}

// MockInvoker is a mock implementation of the relay.InvokeAPI interface
type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*lambda.InvokeOutput)
	return out, args.Error(1)
}

func TestApprovalWidget_ReceiverFailureRendersAsFailure(t *testing.T) {
	ctx := lambdaContext()
	invoker := new(MockInvoker)
	invoker.On("Invoke", ctx, mock.Anything).Return(&lambda.InvokeOutput{
		StatusCode: 200,
		Payload:    []byte(`{"statusCode":502,"body":"{\"ok\":false,\"error\":\"error publishing notification\"}"}`),
	}, nil).Once()

	deps := container.NewMockContainer()
	deps.MockRelay = relay.NewLambdaRelay(invoker, "notify-receiver", false)

	html := invokeHTML(t, widget.NewApprovalWidget(deps), ctx,
		`{"widgetContext": {"params": {"action": "submit", "rowId": "1001"}}}`)

	assert.Contains(t, html, "Submission Failed (Row 1001)")
	assert.Contains(t, html, "receiver returned 502")
	assert.NotContains(t, html, "Request Submitted")
	invoker.AssertNumberOfCalls(t, "Invoke", 1)
}
