// Package render turns a template and a render context into the output document.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"
)

// Renderer renders template text against a data map.
type Renderer interface {
	Render(name, text string, data map[string]any) (string, error)
}

// TextTemplate renders with text/template. Context values are inserted
// verbatim so style sheets, scripts and JSON survive unescaped.
type TextTemplate struct {
	funcs template.FuncMap
}

// NewTextTemplate creates a renderer with the default helper functions.
func NewTextTemplate() *TextTemplate {
	return &TextTemplate{
		funcs: template.FuncMap{
			"json": toJSON,
		},
	}
}

// Render parses text and executes it with data. Referencing a key that is
// not present in data is an error.
func (r *TextTemplate) Render(name, text string, data map[string]any) (string, error) {
	tpl, err := template.New(name).Funcs(r.funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// toJSON serializes v for inline embedding. Map keys come out sorted, so
// repeated renders are byte-identical.
func toJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
