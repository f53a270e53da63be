package handlers

import (
	"bytes"
	"database/sql"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/travel-diary/app/internal/auth"
	"github.com/travel-diary/app/internal/models"
)

// Template helper functions
var funcMap = template.FuncMap{
	"FormatCost": FormatCost,
	"Nl2br":      Nl2br,
	"OrDash":     OrDash,
}

// FormatCost renders an optional cost, or "-" when it was not given.
func FormatCost(cost sql.NullFloat64) string {
	if !cost.Valid {
		return "-"
	}
	return strconv.FormatFloat(cost.Float64, 'f', 2, 64)
}

// Nl2br escapes s and replaces newline characters with <br> tags.
func Nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// OrDash returns s, or "-" for an empty string.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Templates holds one parsed template set per page.
// The key is the page path relative to the templates root,
// e.g. "auth/login.html" or "tours/tour_detail.html".
type Templates struct {
	pages map[string]*template.Template
}

// LoadTemplates parses every page in fsys together with layout.html and all
// partials (files whose name starts with "_").
func LoadTemplates(fsys fs.FS) (*Templates, error) {
	const layoutFile = "layout.html"

	if _, err := fs.Stat(fsys, layoutFile); err != nil {
		return nil, fmt.Errorf("layout.html not found: %w", err)
	}

	var pageFiles, partialFiles []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" || p == layoutFile {
			return nil
		}
		if strings.HasPrefix(path.Base(p), "_") {
			partialFiles = append(partialFiles, p)
		} else {
			pageFiles = append(pageFiles, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking templates: %w", err)
	}

	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	t := &Templates{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, pageFile := range pageFiles {
		// Each page gets its own set so every page can define "content".
		filesToParse := append([]string{layoutFile, pageFile}, partialFiles...)
		tmpl, err := template.New(path.Base(pageFile)).Funcs(funcMap).ParseFS(fsys, filesToParse...)
		if err != nil {
			return nil, fmt.Errorf("error parsing page template %s: %w", pageFile, err)
		}
		t.pages[pageFile] = tmpl
	}

	return t, nil
}

// Render executes the named page through the shared layout.
func (t *Templates) Render(w io.Writer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template not found: %s (available: %v)", name, t.Names())
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Names lists the loaded page names.
func (t *Templates) Names() []string {
	keys := make([]string, 0, len(t.pages))
	for k := range t.pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// templateData is what every page template receives.
type templateData struct {
	Title       string
	User        *auth.Identity // nil when nobody is logged in
	Flashes     []string
	Error       string
	Form        map[string]string
	Tours       []*models.Tour
	Tour        *models.Tour
	ShowOwner   bool
	StatusCode  int
	Message     string
	CurrentYear int
}

// render fills the layout fields of data and writes the page with status.
// Output is buffered so a template failure never leaves a half-written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data *templateData) {
	if data == nil {
		data = &templateData{}
	}
	data.User = h.currentUser(r)
	data.Flashes = popFlash(w, r)
	data.CurrentYear = time.Now().Year()

	var buf bytes.Buffer
	if err := h.templates.Render(&buf, name, data); err != nil {
		h.serverError(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.requestLog(r).WithError(err).Warn("write response")
	}
}

// RenderErrorPage renders a standardized error page using the error.html template.
func (h *Handler) RenderErrorPage(w http.ResponseWriter, r *http.Request, statusCode int, title, message string) {
	h.render(w, r, statusCode, "error.html", &templateData{
		Title:      fmt.Sprintf("Error %d - %s", statusCode, title),
		StatusCode: statusCode,
		Message:    message,
	})
}

// NotFound is the router's fallback for unknown paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.RenderErrorPage(w, r, http.StatusNotFound, "Page Not Found", "The page you are looking for does not exist.")
}

// MethodNotAllowed is the router's fallback for a known path with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.RenderErrorPage(w, r, http.StatusMethodNotAllowed, "Method Not Allowed",
		fmt.Sprintf("%s is not supported for %s.", r.Method, r.URL.Path))
}

// serverError logs err and answers 500. Datastore failures end up here.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.requestLog(r).WithError(err).Error("request failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
