// Package web exposes the scheduling and statistics engine over HTTP.
//
// The engine packages stay pure; this layer owns the only mutable state
// (the imported template snapshot) and threads the configured timezone's
// "now" into every engine call.
package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"studycal/internal/config"
	appLog "studycal/internal/log"
	"studycal/internal/metrics"
	"studycal/internal/model"
	"studycal/internal/recur"
	"studycal/internal/schedule"
	"studycal/internal/stats"
)

// Server provides the HTTP API for schedules, occurrence expansion and
// statistics aggregation.
type Server struct {
	cfg     *config.Config
	loc     *time.Location
	catalog []model.ContentItem
	metrics *metrics.Metrics
	mux     *http.ServeMux

	// Snapshot of ICS-imported event templates, replaced wholesale by the
	// cron-driven refresh.
	tplMu        sync.RWMutex
	templates    []model.EventTemplate
	tplUpdatedAt time.Time
}

// NewServer constructs a new Server. catalog is the content item list the
// schedule endpoint serves from; m may not be nil.
func NewServer(cfg *config.Config, catalog []model.ContentItem, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		loc:     resolveLocationOrLocal(cfg.Timezone),
		catalog: catalog,
		metrics: m,
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// SetTemplates replaces the template snapshot served by /api/week.
func (s *Server) SetTemplates(templates []model.EventTemplate) {
	s.tplMu.Lock()
	s.templates = templates
	s.tplUpdatedAt = time.Now()
	s.tplMu.Unlock()
}

// Handler returns the fully wrapped http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		h = s.basicAuthMiddleware(h)
	}
	return s.metricsMiddleware(h)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", s.metrics.Handler())

	s.mux.HandleFunc("/api/schedule", s.handleSchedule)
	s.mux.HandleFunc("/api/week", s.handleWeek)

	s.mux.HandleFunc("/api/stats/weekly", s.handleStatsWeekly)
	s.mux.HandleFunc("/api/stats/focus", s.handleStatsFocus)
	s.mux.HandleFunc("/api/stats/streak", s.handleStatsStreak)
	s.mux.HandleFunc("/api/stats/timeline", s.handleStatsTimeline)
	s.mux.HandleFunc("/api/stats/tasks", s.handleStatsTasks)
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password is treated as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health is always exposed without auth.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="studycal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records a counter and duration sample per request.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordRequest(r.URL.Path, strconv.Itoa(rec.status))
		s.metrics.ObserveDuration(r.URL.Path, time.Since(started).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) now() time.Time {
	return time.Now().In(s.loc)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// scheduleResponse is the JSON response shape for /api/schedule.
type scheduleResponse struct {
	Level       int                   `json:"level"`
	StartDate   string                `json:"start_date"`
	Assignments []model.DayAssignment `json:"assignments"`
}

// handleSchedule returns the day assignments for a challenge batch.
//
// GET /api/schedule?start=2024-01-01&level=3
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()

	startDate, err := time.ParseInLocation(time.DateOnly, q.Get("start"), s.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be a YYYY-MM-DD date")
		return
	}

	level, err := strconv.Atoi(q.Get("level"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "level must be an integer")
		return
	}

	assignments, err := schedule.Generate(s.catalog, startDate, level, s.now())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, schedule.ErrUnsupportedLevel) ||
			errors.Is(err, schedule.ErrInvalidRange) ||
			errors.Is(err, schedule.ErrOutOfRange) {
			status = http.StatusBadRequest
		}
		appLog.Error("schedule generation failed", err, "level", level, "start", q.Get("start"))
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, scheduleResponse{
		Level:       level,
		StartDate:   startDate.Format(time.DateOnly),
		Assignments: assignments,
	})
}

// weekResponse is the JSON response shape for /api/week.
type weekResponse struct {
	ISOYear     int                     `json:"iso_year"`
	ISOWeek     int                     `json:"iso_week"`
	WeekStart   time.Time               `json:"week_start"`
	Occurrences []model.EventOccurrence `json:"occurrences"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// handleWeek expands the imported template snapshot into this week's
// occurrences, sorted by start.
func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.tplMu.RLock()
	templates := s.templates
	updatedAt := s.tplUpdatedAt
	s.tplMu.RUnlock()

	now := s.now()
	occurrences := recur.Expand(templates, now)
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].Start.Before(occurrences[j].Start)
	})

	year, week := model.ISOWeekOf(now)
	writeJSON(w, http.StatusOK, weekResponse{
		ISOYear:     year,
		ISOWeek:     week,
		WeekStart:   model.WeekStart(now),
		Occurrences: occurrences,
		UpdatedAt:   updatedAt,
	})
}

// occurrencesRequest is the JSON request body for the occurrence-based
// stats endpoints.
type occurrencesRequest struct {
	Occurrences []model.EventOccurrence `json:"occurrences"`
}

func (s *Server) handleStatsWeekly(w http.ResponseWriter, r *http.Request) {
	var req occurrencesRequest
	if !decodePost(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Totals []model.WeeklyTagTotal `json:"totals"`
	}{Totals: stats.ByWeekAndTag(req.Occurrences)})
}

func (s *Server) handleStatsFocus(w http.ResponseWriter, r *http.Request) {
	var req occurrencesRequest
	if !decodePost(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, stats.WeekFocusSummary(req.Occurrences, s.now()))
}

func (s *Server) handleStatsStreak(w http.ResponseWriter, r *http.Request) {
	var req occurrencesRequest
	if !decodePost(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		MaxStreak int `json:"max_streak"`
	}{MaxStreak: stats.MaxConsecutiveStreak(req.Occurrences)})
}

// timelineRequest is the JSON request body for /api/stats/timeline.
type timelineRequest struct {
	Entries    []model.LogEntry `json:"entries"`
	WindowDays int              `json:"window_days,omitempty"`
}

func (s *Server) handleStatsTimeline(w http.ResponseWriter, r *http.Request) {
	var req timelineRequest
	if !decodePost(w, r, &req) {
		return
	}
	window := req.WindowDays
	if window <= 0 {
		window = s.cfg.HistoryWindowDays
	}
	writeJSON(w, http.StatusOK, struct {
		Timeline []model.TimelineEntry `json:"timeline"`
	}{Timeline: stats.FillTimeline(req.Entries, s.now(), window)})
}

// tasksRequest is the JSON request body for /api/stats/tasks.
type tasksRequest struct {
	Tasks       []model.TaskLog `json:"tasks"`
	HorizonDays int             `json:"horizon_days,omitempty"`
}

func (s *Server) handleStatsTasks(w http.ResponseWriter, r *http.Request) {
	var req tasksRequest
	if !decodePost(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, stats.CompletionsByDay(req.Tasks, s.now(), req.HorizonDays))
}

// decodePost enforces the POST method and decodes the JSON body into dst.
// It writes the error response itself and reports whether decoding worked.
func decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
