package widget

import (
	"context"
	"encoding/json"

	"github.com/pennsieve/dashboard-widget-service/internal/container"
	"github.com/pennsieve/dashboard-widget-service/internal/errors"
	"github.com/pennsieve/dashboard-widget-service/internal/forms"
	"github.com/pennsieve/dashboard-widget-service/internal/models"
	"github.com/pennsieve/dashboard-widget-service/internal/render"
	"github.com/pennsieve/dashboard-widget-service/internal/utils"
)

const (
	ActionReview = "review"
	ActionSubmit = "submit"
)

// NewApprovalWidget builds the approval widget: a table of client accounts where each row
// collects a requester, an approver and an MFA code, reviews them, and relays the result.
func NewApprovalWidget(deps container.DependencyContainer) *Widget {
	router := NewActionRouter()
	router.Handle(ActionReview, reviewHandler)
	router.Handle(ActionSubmit, submitHandler)
	router.Default(approvalTableHandler)

	return &Widget{
		name:        "ApprovalWidget",
		description: render.ApprovalDescription,
		deps:        deps,
		router:      router,
	}
}

// ApprovalWidgetHandler is the Lambda entry point for the approval widget.
func ApprovalWidgetHandler(ctx context.Context, event json.RawMessage) (any, error) {
	deps, err := container.Production(ctx)
	if err != nil {
		logger.Error(errors.HandlerError("ApprovalWidgetHandler", err))
		return describeOrError(event, render.ApprovalDescription, err)
	}
	return NewApprovalWidget(deps).LambdaHandler(ctx, event)
}

func approvalTableHandler(ctx context.Context, req *Request) (string, error) {
	dir := req.Deps.Directory()

	rows := make([]render.ApprovalTableRow, 0, len(dir.Rows))
	for _, r := range dir.Rows {
		review, err := render.NewButton("Review", "btn btn-primary", req.Endpoint,
			models.ActionParams{Action: ActionReview, RowId: r.Id})
		if err != nil {
			return "", err
		}
		rows = append(rows, render.ApprovalTableRow{
			Id:      r.Id,
			Client:  r.Client,
			Account: r.Account,
			Review:  review,
		})
	}

	return render.ApprovalTable(render.ApprovalTableView{
		Rows:       rows,
		Approvers:  dir.Approvers,
		Requesters: dir.Requesters,
	})
}

// rowSubmission merges what the viewer typed for a row over the row's static values.
// Unknown rows resolve to an empty submission.
func rowSubmission(req *Request, rowId models.RowId) (models.Submission, bool) {
	row, found := req.Deps.Directory().Row(rowId)
	if !found {
		return models.Submission{}, false
	}

	values := forms.RowValues(req.Forms, rowId)
	return models.Submission{
		Client:         values.Or(forms.FieldClient, row.Client),
		Account:        values.Or(forms.FieldAccount, row.Account),
		RequesterEmail: values.Value(forms.FieldRequester),
		ApproverEmail:  values.Value(forms.FieldApprover),
		MfaCode:        values.Value(forms.FieldMfa),
	}, true
}

func reviewHandler(ctx context.Context, req *Request) (string, error) {
	rowId := req.Params.RowId
	if rowId.IsEmpty() {
		req.Logger.Warn(errors.HandlerError("reviewHandler", errors.ErrMissingRowId))
		return approvalTableHandler(ctx, req)
	}

	back, err := backButton(req.Endpoint)
	if err != nil {
		return "", err
	}

	submission, found := rowSubmission(req, rowId)
	view := render.ApprovalConfirmView{
		RowId: rowId,
		Found: found,
		Back:  back,
	}
	if !found {
		req.Logger.Warn(errors.HandlerError("reviewHandler", errors.ErrRowNotFound), "rowId", rowId.String())
		return render.ApprovalConfirm(view)
	}

	dir := req.Deps.Directory()
	requester, _ := dir.Requester(submission.RequesterEmail)
	approver, _ := dir.Approver(submission.ApproverEmail)

	view.Client = submission.Client
	view.Account = submission.Account
	view.Requester = requester.DisplayName()
	view.Approver = approver.DisplayName()
	view.Mfa = submission.MfaCode

	submit, err := render.NewButton("Submit", "btn btn-primary", req.Endpoint, models.ActionParams{
		Action:         ActionSubmit,
		RowId:          rowId,
		Client:         submission.Client,
		Account:        submission.Account,
		RequesterEmail: submission.RequesterEmail,
		ApproverEmail:  submission.ApproverEmail,
		MfaCode:        submission.MfaCode,
	})
	if err != nil {
		return "", err
	}
	view.Submit = &submit

	req.Logger.Info("review rendered",
		"rowId", rowId.String(),
		"client", submission.Client,
		"approver_email", submission.ApproverEmail,
		utils.RedactMFA(submission.MfaCode))

	return render.ApprovalConfirm(view)
}

func submitHandler(ctx context.Context, req *Request) (string, error) {
	handlerName := "submitHandler"
	rowId := req.Params.RowId
	if rowId.IsEmpty() {
		req.Logger.Warn(errors.HandlerError(handlerName, errors.ErrMissingRowId))
		return approvalTableHandler(ctx, req)
	}

	back, err := backButton(req.Endpoint)
	if err != nil {
		return "", err
	}
	view := render.ApprovalResultView{RowId: rowId, Back: back}

	fromForms, found := rowSubmission(req, rowId)
	if !found {
		req.Logger.Warn(errors.HandlerError(handlerName, errors.ErrRowNotFound), "rowId", rowId.String())
		view.Error = errors.ErrRowNotFound.Error()
		return render.ApprovalResult(view)
	}

	// the Submit button echoes the reviewed values; form inputs only fill gaps
	submission := req.Params.Submission()
	submission.Client = firstNonEmpty(submission.Client, fromForms.Client)
	submission.Account = firstNonEmpty(submission.Account, fromForms.Account)
	submission.RequesterEmail = firstNonEmpty(submission.RequesterEmail, fromForms.RequesterEmail)
	submission.ApproverEmail = firstNonEmpty(submission.ApproverEmail, fromForms.ApproverEmail)
	submission.MfaCode = firstNonEmpty(submission.MfaCode, fromForms.MfaCode)
	view.Client = submission.Client

	relay := req.Deps.Relay()
	if relay == nil {
		view.Error = errors.ErrRelayNotConfigured.Error()
		return render.ApprovalResult(view)
	}

	reply, err := relay.Send(ctx, submission)
	if err != nil {
		req.Logger.Error(errors.HandlerError(handlerName, err), "rowId", rowId.String())
		view.Error = err.Error()
		return render.ApprovalResult(view)
	}

	req.Logger.Info("submission relayed",
		"rowId", rowId.String(),
		"client", submission.Client,
		"async", reply.Async,
		"statusCode", reply.StatusCode,
		utils.RedactMFA(submission.MfaCode))

	view.Async = reply.Async
	view.StatusCode = reply.StatusCode
	view.Body = reply.Body
	return render.ApprovalResult(view)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
