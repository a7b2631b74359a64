package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/foxerapp/foxer/internal/errors"
	"github.com/foxerapp/foxer/internal/task"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
}

// TaskView is a task decorated with the derived display state the list
// template needs.
type TaskView struct {
	ID            string
	Title         string
	HasNotes      bool
	DueLabel      string
	Urgency       task.Urgency
	PendingDelete bool
}

// ListPageData is the template data for the task list page.
type ListPageData struct {
	PageData
	Greeting  string
	Summary   string
	Active    []TaskView
	Completed []TaskView
}

// DetailPageData is the template data for the task detail page.
type DetailPageData struct {
	PageData
	Task         task.Task
	DueLabel     string
	Urgency      task.Urgency
	RenderedHTML template.HTML
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"formatTime": formatTime,
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"list":   "list.html",
		"detail": "detail.html",
		"error":  "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation: JSON for
// API callers, a full error page otherwise.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var fErr *errors.FoxerError
	if !stderrors.As(err, &fErr) {
		fErr = errors.NewInternal(err)
	}

	if strings.HasPrefix(req.URL.Path, "/api/") ||
		strings.Contains(req.Header.Get("Accept"), "application/json") {
		renderJSON(w, fErr.Status, map[string]any{
			"error": map[string]any{
				"code":    string(fErr.Code),
				"message": fErr.Message,
				"status":  fErr.Status,
			},
		})
		return
	}

	r.renderPageStatus(w, fErr.Status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", fErr.Status),
			Version: r.version,
		},
		StatusCode: fErr.Status,
		Message:    fErr.Message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts markdown notes to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats a timestamp as "2006-01-02 15:04".
func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// greetingFor picks the list-page greeting by hour of day.
func greetingFor(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// summaryFor builds the "You have N tasks in total, M today" line.
func summaryFor(active []task.Task, now time.Time) string {
	today := 0
	for _, t := range active {
		if sameDay(t.Due.ParsedDate, now) {
			today++
		}
	}
	return fmt.Sprintf("It's %s. You have %d %s in total, %d today.",
		now.Format("January 2"), len(active), plural(len(active), "task", "tasks"), today)
}

// dueLabel renders a compact human label for a due instant.
func dueLabel(due time.Time, now time.Time) string {
	switch {
	case sameDay(due, now):
		if due.Hour() == 0 && due.Minute() == 0 {
			return "Today"
		}
		return "Today " + due.Format("15:04")
	case sameDay(due, now.AddDate(0, 0, 1)):
		return "Tomorrow"
	case sameDay(due, now.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return due.Format("Jan 2")
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
