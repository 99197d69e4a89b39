// Package renderer renders reports on the local bank data as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templateFiles embed.FS

// templates holds the template files, rooted at the templates folder.
var templates, _ = fs.Sub(templateFiles, "templates")

var funcs = template.FuncMap{
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

// renderTemplate executes the template name.md, with partials mapping template
// names to the files defining them.
func renderTemplate(name string, partials map[string]string, data any) string {
	files := map[string]string{name: name + ".md"}
	maps.Copy(files, partials)

	tmpl := template.New(name).Funcs(funcs)
	for tname, file := range files {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading template %q: %v", file, err)
		}
		if _, err := tmpl.New(tname).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing template %q: %v", file, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}
