// Package templates holds the embedded HTML pages. Presentation is thin
// glue here: handlers pass plain data in, nothing renders outside this
// package.
package templates

import (
	"embed"
	"html/template"
	"net/http"

	"survey-collector/log"
)

//go:embed *.html
var pages embed.FS

var tmpl = template.Must(template.ParseFS(pages, "*.html"))

func Render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("template.render.%s: %s", name, err)
	}
}
