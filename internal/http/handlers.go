package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"timetrack/internal/auth"
	"timetrack/internal/core"
	"timetrack/internal/store"
)

var templateFuncs = template.FuncMap{
	"hours": formatHours,
	"pct":   func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "h"
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", struct{ Error string }{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			s.render(w, r, "login.html", struct{ Error string }{"Invalid request"})
			return
		}
		sess, err := s.sessions.Login(r.Form.Get("password"))
		if err != nil {
			slog.WarnContext(r.Context(), "Login failed", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			s.render(w, r, "login.html", struct{ Error string }{"Invalid password"})
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sess, ok := auth.FromContext(r.Context()); ok {
		s.sessions.Logout(sess.ID)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleIndex renders the add-entry form with known projects and
// categories as datalist suggestions.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	projects, err := s.entries.Projects(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Project list error", "error", err)
	}
	categories, err := s.entries.Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list error", "error", err)
	}
	s.render(w, r, "index.html", struct {
		Today      string
		Projects   []string
		Categories []string
	}{
		Today:      time.Now().Format(core.DateLayout),
		Projects:   projects,
		Categories: categories,
	})
}

// handleEntries lists entries (GET) or creates one (POST).
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateEntry(w, r)
	case http.MethodGet:
		s.handleListEntries(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	dateStr := sanitizeInput(r.Form.Get("date"))
	if dateStr == "" {
		dateStr = time.Now().Format(core.DateLayout)
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid date</div>`))
		return
	}

	duration, err := strconv.ParseFloat(sanitizeInput(r.Form.Get("duration_hours")), 64)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid duration</div>`))
		return
	}

	candidate := core.TimeEntry{
		Date:          date,
		Project:       sanitizeInput(r.Form.Get("project")),
		Category:      sanitizeInput(r.Form.Get("category")),
		DurationHours: duration,
		Description:   sanitizeInput(r.Form.Get("description")),
	}

	entry, err := s.entries.AddEntry(r.Context(), candidate)
	if err != nil {
		if core.IsValidationError(err) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Invalid entry: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Entry append error", "error", err, "project", candidate.Project)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<div class="error">Could not save the entry, the backing store is unavailable</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Added ` + template.HTMLEscapeString(formatHours(entry.DurationHours)) +
		` on ` + template.HTMLEscapeString(entry.Project) +
		` (` + template.HTMLEscapeString(entry.Category) + `) - ` +
		template.HTMLEscapeString(entry.Date.String()) + `</div>`))
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "entries.html", entriesView{Error: "Invalid filter: " + err.Error()})
		return
	}

	entries, err := s.entries.ListEntries(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "List entries error", "error", err)
		w.WriteHeader(http.StatusBadGateway)
		s.render(w, r, "entries.html", entriesView{Error: "Could not read the backing store"})
		return
	}

	projects, _ := s.entries.Projects(r.Context())
	categories, _ := s.entries.Categories(r.Context())

	view := entriesView{
		Filter:     filter,
		Projects:   projects,
		Categories: categories,
		Count:      len(entries),
	}
	var total float64
	for _, e := range entries {
		total += e.DurationHours
		view.Rows = append(view.Rows, entryRow{
			Date:        e.Date.String(),
			Project:     e.Project,
			Category:    e.Category,
			Duration:    formatHours(e.DurationHours),
			Description: e.Description,
		})
	}
	view.TotalHours = formatHours(total)
	if len(entries) > 0 {
		view.AvgHours = formatHours(total / float64(len(entries)))
	}
	view.ExportQuery = template.URL(r.URL.RawQuery)
	s.render(w, r, "entries.html", view)
}

type entryRow struct {
	Date, Project, Category, Duration, Description string
}

type entriesView struct {
	Error       string
	Filter      core.Filter
	Projects    []string
	Categories  []string
	Rows        []entryRow
	Count       int
	TotalHours  string
	AvgHours    string
	ExportQuery template.URL
}

// handleReport renders grouped totals for the filtered set.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	groupBy := core.GroupBy(r.URL.Query().Get("group"))
	if groupBy == "" {
		groupBy = core.ByProject
	}
	if !groupBy.IsValid() {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "report.html", reportView{Error: "Unknown grouping: " + string(groupBy)})
		return
	}

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "report.html", reportView{Error: "Invalid filter: " + err.Error()})
		return
	}

	entries, err := s.entries.ListEntries(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report load error", "error", err)
		w.WriteHeader(http.StatusBadGateway)
		s.render(w, r, "report.html", reportView{Error: "Could not read the backing store"})
		return
	}

	summary := core.Summarize(entries, groupBy)
	view := reportView{
		GroupBy:    string(groupBy),
		Groupings:  groupings,
		GrandTotal: formatHours(summary.GrandTotal),
		Entries:    len(entries),
	}
	for _, g := range summary.Groups {
		pct := summary.Percentage(g)
		view.Rows = append(view.Rows, reportRow{
			Key:        g.Key,
			Total:      formatHours(g.TotalHours),
			Count:      g.Count,
			Avg:        formatHours(g.AvgHours),
			Percentage: pct,
			Width:      barWidth(pct),
		})
	}
	s.render(w, r, "report.html", view)
}

// barWidth converts a percentage into a CSS width, keeping tiny groups
// visible.
func barWidth(pct float64) int {
	w := int(pct + 0.5)
	if w > 0 && w < 2 {
		w = 2
	}
	if w > 100 {
		w = 100
	}
	return w
}

var groupings = []string{
	string(core.ByProject),
	string(core.ByCategory),
	string(core.ByProjectCategory),
	string(core.ByDay),
	string(core.ByWeek),
	string(core.ByMonth),
	string(core.ByYear),
}

type reportRow struct {
	Key        string
	Total      string
	Count      int
	Avg        string
	Percentage float64
	Width      int
}

type reportView struct {
	Error      string
	GroupBy    string
	Groupings  []string
	GrandTotal string
	Entries    int
	Rows       []reportRow
}

// handleExport streams the filtered entries as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, "invalid filter: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	entries, err := s.entries.ListEntries(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export load error", "error", err)
		http.Error(w, "backing store unavailable", http.StatusBadGateway)
		return
	}

	data, err := store.ExportCSV(entries)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export encode error", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("time_tracking_export_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

// parseFilter reads the optional project/category/from/to query fields.
func parseFilter(q url.Values) (core.Filter, error) {
	f := core.Filter{
		Project:  sanitizeInput(q.Get("project")),
		Category: sanitizeInput(q.Get("category")),
	}
	if v := sanitizeInput(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("from: %w", err)
		}
		f.From = d
	}
	if v := sanitizeInput(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("to: %w", err)
		}
		f.To = d
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Time.Before(f.From.Time) {
		return core.Filter{}, errors.New("empty range: to precedes from")
	}
	return f, nil
}
