package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/pennsieve/dashboard-widget-service/internal/errors"
	"github.com/pennsieve/dashboard-widget-service/internal/forms"
	"github.com/pennsieve/dashboard-widget-service/internal/models"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded widget views.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

var views = loadViews()

func loadViews() map[string]*pongo2.Template {
	registerFilters()

	// autoescaping is on by default; only button payloads are marked safe
	set := pongo2.NewSet("widgets", pongo2.NewFSLoader(TemplatesFS()))

	names, err := fs.Glob(TemplatesFS(), "*.tmpl")
	if err != nil {
		panic(fmt.Sprintf("render: list templates: %v", err))
	}

	templates := make(map[string]*pongo2.Template, len(names))
	for _, name := range names {
		templates[strings.TrimSuffix(name, ".tmpl")] = pongo2.Must(set.FromFile(name))
	}
	return templates
}

func registerFilters() {
	if !pongo2.FilterExists("fieldname") {
		_ = pongo2.RegisterFilter("fieldname", filterFieldName)
	}
}

// filterFieldName turns a row id and a field into the input name, {{ row.Id|fieldname:"mfa" }}.
func filterFieldName(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(forms.FieldName(models.RowId(in.String()), param.String())), nil
}

func execute(name string, data pongo2.Context) (string, error) {
	tmpl, ok := views[name]
	if !ok {
		return "", fmt.Errorf("rendering %s: unknown view", name)
	}
	out, err := tmpl.Execute(data)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return out, nil
}

// ActionJSON encodes a button payload for the body of a cwdb-action element.
// encoding/json escapes <, > and & so the result is safe as HTML text.
func ActionJSON(params models.ActionParams) (string, error) {
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrMarshaling, err)
	}
	return string(b), nil
}

// Button is an anchor followed by the cwdb-action the dashboard runs when it is clicked.
type Button struct {
	Label    string
	Class    string
	Endpoint string
	Payload  string
}

func NewButton(label, class, endpoint string, params models.ActionParams) (Button, error) {
	payload, err := ActionJSON(params)
	if err != nil {
		return Button{}, err
	}
	return Button{Label: label, Class: class, Endpoint: endpoint, Payload: payload}, nil
}

// Message renders a plain inline notice, used for errors the widget cannot recover from.
func Message(title, text string, back *Button) (string, error) {
	data := pongo2.Context{"title": title, "text": text}
	if back != nil {
		data["back"] = back
	}
	return execute("message", data)
}
