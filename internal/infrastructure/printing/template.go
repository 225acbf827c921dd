package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	appsales "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/sales"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultConfirmationTemplate = "templates/order_confirmation.html"

// ConfirmationTemplate renders a ConfirmationView to HTML
type ConfirmationTemplate struct {
	name string
	tmpl *template.Template
}

// NewConfirmationTemplate parses the template at path, or the embedded default
// when path is empty
func NewConfirmationTemplate(path string) (*ConfirmationTemplate, error) {
	var (
		content []byte
		name    string
		err     error
	)
	if path == "" {
		name = filepath.Base(defaultConfirmationTemplate)
		content, err = templateFS.ReadFile(defaultConfirmationTemplate)
	} else {
		name = filepath.Base(path)
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to read confirmation template", err)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse confirmation template "+name, err)
	}
	return &ConfirmationTemplate{name: name, tmpl: tmpl}, nil
}

// Name returns the template file name
func (t *ConfirmationTemplate) Name() string {
	return t.name
}

// Render executes the template for view
func (t *ConfirmationTemplate) Render(view appsales.ConfirmationView) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, fmt.Sprintf("failed to execute template %s", t.name), err)
	}
	return buf.String(), nil
}
