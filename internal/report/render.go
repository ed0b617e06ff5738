package report

import (
	"bytes"
	_ "embed"
	"html/template"
)

//go:embed templates/summary.html.tmpl
var summaryTemplate string

// Render produces the HTML summary for a payload using the embedded
// template.
func Render(payload *Payload) ([]byte, error) {
	tmpl, err := template.New("summary").Parse(summaryTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
