// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"sync"
)

//go:embed templates/*.html
var files embed.FS

// Page is the data every template receives
type Page struct {
	Title    string
	Username string
	Errors   map[string][]string
	Form     url.Values
	Data     any
}

// FieldError returns the first message for field
func (p Page) FieldError(field string) string {
	if msgs := p.Errors[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Value returns the submitted value of field, or def when nothing was submitted
func (p Page) Value(field, def string) string {
	if vs, ok := p.Form[field]; ok && len(vs) > 0 {
		return vs[0]
	}
	return def
}

var funcs = template.FuncMap{
	"seq": func(n int) []int {
		s := make([]int, n)
		for i := range s {
			s[i] = i
		}
		return s
	},
}

var (
	pages     map[string]*template.Template
	pagesOnce sync.Once
	pagesErr  error
)

func load() (map[string]*template.Template, error) {
	pagesOnce.Do(func() {
		names, err := files.ReadDir("templates")
		if err != nil {
			pagesErr = err
			return
		}
		pages = make(map[string]*template.Template, len(names))
		for _, entry := range names {
			name := entry.Name()
			if name == "layout.html" {
				continue
			}
			t, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", path.Join("templates", name))
			if err != nil {
				pagesErr = fmt.Errorf("failed to parse %s: %w", name, err)
				return
			}
			pages[name] = t
		}
	})
	return pages, pagesErr
}

// Render writes page name with status. The page is rendered to a buffer
// first so a template error never leaves a half-written response.
func Render(w http.ResponseWriter, status int, name string, page Page) {
	all, err := load()
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	t, ok := all[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		slog.Error("failed to render template", "name", name, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
