package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pennsieve/dashboard-widget-service/internal/models"
)

// Per-row input fields. Inputs are named r_<rowId>_<field> so a single forms.all object can
// carry every row of the table.
const (
	FieldClient    = "client"
	FieldAccount   = "account"
	FieldRequester = "requester"
	FieldApprover  = "approver"
	FieldMfa       = "mfa"
)

// FieldName returns the namespaced input name for a row field.
func FieldName(rowId models.RowId, field string) string {
	return fmt.Sprintf("r_%s_%s", rowId, field)
}

// Normalize turns forms.all into a list of string maps. A single object becomes a one
// element list; array members that are not objects are dropped. Anything else is empty.
func Normalize(raw json.RawMessage) []map[string]string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '{':
		if m, ok := decodeObject(raw); ok {
			return []map[string]string{m}
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		out := make([]map[string]string, 0, len(items))
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) == 0 || item[0] != '{' {
				continue
			}
			if m, ok := decodeObject(item); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func decodeObject(raw json.RawMessage) (map[string]string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, false
	}

	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = stringify(v)
	}
	return out, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Values are the inputs submitted for one row.
type Values struct {
	fields map[string]string
}

// Get returns the submitted value and whether the field was present at all.
func (v Values) Get(field string) (string, bool) {
	s, ok := v.fields[field]
	return s, ok
}

// Value returns the submitted value, or empty when the field was absent.
func (v Values) Value(field string) string {
	return v.fields[field]
}

// Or returns the submitted value, or fallback when the field was absent or blank.
func (v Values) Or(field, fallback string) string {
	if s, ok := v.fields[field]; ok && s != "" {
		return s
	}
	return fallback
}

// RowValues collects the fields for one row. When several form objects carry the same
// key, the last one wins.
func RowValues(dicts []map[string]string, rowId models.RowId) Values {
	values := Values{fields: make(map[string]string)}
	if rowId.IsEmpty() {
		return values
	}

	for _, field := range []string{FieldClient, FieldAccount, FieldRequester, FieldApprover, FieldMfa} {
		key := FieldName(rowId, field)
		for _, d := range dicts {
			if s, ok := d[key]; ok {
				values.fields[field] = s
			}
		}
	}
	return values
}
