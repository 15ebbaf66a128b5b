package ui

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pages maps page names to parsed template sets (layout + page).
var pages = map[string]*template.Template{}

func init() {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		panic(err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == "layout.html" {
			continue
		}
		pages[name] = template.Must(template.ParseFS(templatesFS,
			"templates/layout.html", "templates/"+name))
	}
}

// Render executes the named page template into the response. Pages render
// into a buffer first so a template error never produces a half-written
// body.
func Render(w http.ResponseWriter, r *http.Request, page string, data any) {
	tmpl, ok := pages[page]
	if !ok {
		slog.Error("unknown template", "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "layout", data)
	if err != nil {
		slog.Error("render failed", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
