package render

import (
	"github.com/flosch/pongo2/v6"

	"github.com/pennsieve/dashboard-widget-service/internal/models"
)

const (
	ApprovalDescription = "### Client/Account/Requester/Approver Widget\n" +
		"- CLIENT and ACCOUNT are pre-filled per row and can be edited.\n" +
		"- Requester and approver dropdowns show **names** and submit **emails** as values.\n" +
		"- **Review** sends `{action:'review', rowId:<RID>}` in params and all inputs in forms.all.\n" +
		"- **Submit** forwards `{client, account, requester_email, approver_email, mfa_code}` to the approval service.\n"

	SessionDescription = "### Client Sessions\n" +
		"Shows client, instance and a button that starts an SSM Session Manager session.\n"
)

type ApprovalTableRow struct {
	Id      models.RowId
	Client  string
	Account string
	Review  Button
}

type ApprovalTableView struct {
	Rows       []ApprovalTableRow
	Approvers  []models.Contact
	Requesters []models.Contact
}

func ApprovalTable(view ApprovalTableView) (string, error) {
	return execute("approval_table", pongo2.Context{"view": view})
}

// ApprovalConfirmView shows the values that will be submitted for one row. Submit is nil
// when the row is unknown.
type ApprovalConfirmView struct {
	RowId     models.RowId
	Found     bool
	Client    string
	Account   string
	Requester string
	Approver  string
	Mfa       string
	Submit    *Button
	Back      Button
}

func ApprovalConfirm(view ApprovalConfirmView) (string, error) {
	data := pongo2.Context{"view": view}
	if view.Submit != nil {
		data["submit"] = view.Submit
	}
	return execute("approval_confirm", data)
}

type ApprovalResultView struct {
	RowId      models.RowId
	Client     string
	Async      bool
	StatusCode int
	Body       string
	Error      string
	Back       Button
}

func ApprovalResult(view ApprovalResultView) (string, error) {
	return execute("approval_result", pongo2.Context{"view": view})
}

type SessionTableRow struct {
	Client   string
	Instance string
	Start    Button
}

type SessionTableView struct {
	Rows []SessionTableRow
}

func SessionTable(view SessionTableView) (string, error) {
	return execute("session_table", pongo2.Context{"view": view})
}

type SessionStartedView struct {
	InstanceId string
	SessionId  string
	StreamUrl  string
	Back       Button
}

func SessionStarted(view SessionStartedView) (string, error) {
	return execute("session_started", pongo2.Context{"view": view})
}
