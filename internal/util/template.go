package util

import (
	"bytes"
	"strings"
	"text/template"
)

// RenderTemplate expands prompt template variables using text/template. This
// lives in internal to avoid committing to public API stability prematurely.
// text/template (not html/template) is required: prompts must reach the
// provider unescaped.
func RenderTemplate(text string, data map[string]any) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}

	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
