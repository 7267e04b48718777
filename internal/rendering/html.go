package rendering

import (
	"embed"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/biosketch-checker/internal/parsing"
)

//go:embed templates/draft.html.tmpl
var templateFS embed.FS

var loadTemplate = sync.OnceValues(func() (*template.Template, error) {
	tmpl, err := template.New("draft.html.tmpl").Funcs(template.FuncMap{
		"upper":      strings.ToUpper,
		"citation":   parsing.FormatCitation,
		"paragraphs": splitParagraphs,
		"inc":        func(i int) int { return i + 1 },
		"lines": func(s string) template.HTML {
			return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br />"))
		},
	}).ParseFS(templateFS, "templates/draft.html.tmpl")
	if err != nil {
		return nil, &TemplateError{Stage: "parse", Cause: err}
	}
	return tmpl, nil
})

// RenderHTML renders the draft as a self-contained HTML fragment with the
// common form and supplement in separate containers.
func RenderHTML(d *Draft) (string, error) {
	tmpl, err := loadTemplate()
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.ExecuteTemplate(&result, "draft", d); err != nil {
		return "", &TemplateError{Stage: "execute", Cause: err}
	}
	return result.String(), nil
}
