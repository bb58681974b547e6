package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RowId is a row identifier. The dashboard echoes it back as whatever JSON type the button
// payload used, so both 1001 and "1001" decode to the same value.
type RowId string

func (r *RowId) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RowId(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("row id must be a string or number: %w", err)
	}
	*r = RowId(n.String())
	return nil
}

func (r RowId) String() string {
	return string(r)
}

func (r RowId) IsEmpty() bool {
	return r == ""
}

// WidgetEvent is the payload CloudWatch sends to a custom widget lambda.
type WidgetEvent struct {
	Describe      bool           `json:"describe,omitempty"`
	Action        string         `json:"action,omitempty"`
	RowId         RowId          `json:"rowId,omitempty"`
	Instance      string         `json:"instance,omitempty"`
	WidgetContext *WidgetContext `json:"widgetContext,omitempty"`
}

type WidgetContext struct {
	DashboardName string       `json:"dashboardName,omitempty"`
	WidgetId      string       `json:"widgetId,omitempty"`
	AccountId     string       `json:"accountId,omitempty"`
	Locale        string       `json:"locale,omitempty"`
	Timezone      *Timezone    `json:"timezone,omitempty"`
	Theme         string       `json:"theme,omitempty"`
	Title         string       `json:"title,omitempty"`
	Width         int          `json:"width,omitempty"`
	Height        int          `json:"height,omitempty"`
	Params        ActionParams `json:"params,omitempty"`
	Forms         *Forms       `json:"forms,omitempty"`
}

type Timezone struct {
	Label        string `json:"label,omitempty"`
	OffsetISO    string `json:"offsetISO,omitempty"`
	OffsetInMins int    `json:"offsetInMinutes,omitempty"`
}

// Forms carries every input inside the widget. CloudWatch sends `all` as a single object,
// but some dashboards post an array of objects, so it is kept raw until normalized.
type Forms struct {
	All json.RawMessage `json:"all,omitempty"`
}

// ActionParams is the JSON body of a cwdb-action element, delivered back as
// widgetContext.params on the next invocation.
type ActionParams struct {
	Action         string `json:"action,omitempty"`
	RowId          RowId  `json:"rowId,omitempty"`
	Instance       string `json:"instance,omitempty"`
	Client         string `json:"client,omitempty"`
	Account        string `json:"account,omitempty"`
	RequesterEmail string `json:"requester_email,omitempty"`
	ApproverEmail  string `json:"approver_email,omitempty"`
	MfaCode        string `json:"mfa_code,omitempty"`
}

// Params returns the action parameters, preferring top-level event keys over
// widgetContext.params.
func (e WidgetEvent) Params() ActionParams {
	var params ActionParams
	if e.WidgetContext != nil {
		params = e.WidgetContext.Params
	}
	if e.Action != "" {
		params.Action = e.Action
	}
	if !e.RowId.IsEmpty() {
		params.RowId = e.RowId
	}
	if e.Instance != "" {
		params.Instance = e.Instance
	}
	params.Action = strings.TrimSpace(params.Action)
	return params
}

// FormsAll returns the raw forms.all value, or nil when the widget sent no forms.
func (e WidgetEvent) FormsAll() json.RawMessage {
	if e.WidgetContext == nil || e.WidgetContext.Forms == nil {
		return nil
	}
	return e.WidgetContext.Forms.All
}

// DescribeResponse is returned instead of HTML when the console asks the widget to
// document itself.
type DescribeResponse struct {
	Markdown string `json:"markdown"`
}

// Submission is the flat payload relayed to the downstream lambda.
type Submission struct {
	Client         string `json:"client"`
	Account        string `json:"account"`
	RequesterEmail string `json:"requester_email"`
	ApproverEmail  string `json:"approver_email"`
	MfaCode        string `json:"mfa_code"`
}

// Submission builds the relay payload from the values echoed in the Submit button.
func (p ActionParams) Submission() Submission {
	return Submission{
		Client:         p.Client,
		Account:        p.Account,
		RequesterEmail: p.RequesterEmail,
		ApproverEmail:  p.ApproverEmail,
		MfaCode:        p.MfaCode,
	}
}
