package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studycal/internal/catalog"
	"studycal/internal/config"
	"studycal/internal/metrics"
	"studycal/internal/model"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return NewServer(cfg, catalog.Default(), metrics.New())
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScheduleCumulative(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/schedule?start=2024-01-01&level=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Level       int                   `json:"level"`
		StartDate   string                `json:"start_date"`
		Assignments []model.DayAssignment `json:"assignments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Level)
	assert.Equal(t, "2024-01-01", resp.StartDate)
	assert.Len(t, resp.Assignments, 21)
	// Day one of the window carries exactly the first item.
	require.Len(t, resp.Assignments[0].Items, 1)
	assert.Equal(t, 0, resp.Assignments[0].Items[0].ID)
}

func TestScheduleUnsupportedLevel(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/schedule?start=2024-01-01&level=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleLinearFutureStart(t *testing.T) {
	srv := newTestServer(t, nil)
	start := time.Now().AddDate(0, 0, 14).Format(time.DateOnly)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/schedule?start="+start+"&level=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleBadParams(t *testing.T) {
	srv := newTestServer(t, nil)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/schedule?start=nonsense&level=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/schedule?start=2024-01-01&level=many", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/schedule?start=2024-01-01&level=1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWeekEmptySnapshot(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/week", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ISOWeek     int                     `json:"iso_week"`
		Occurrences []model.EventOccurrence `json:"occurrences"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Occurrences)
	assert.Positive(t, resp.ISOWeek)
}

func TestWeekWithDailyTemplate(t *testing.T) {
	srv := newTestServer(t, nil)
	now := time.Now()
	srv.SetTemplates([]model.EventTemplate{{
		ID:         1,
		Title:      "morning review",
		Start:      now.AddDate(0, 0, -30),
		End:        now.AddDate(0, 0, -30).Add(30 * time.Minute),
		Recurrence: model.Recurrence{Kind: model.RecurrenceDaily},
	}})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/week", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Occurrences []model.EventOccurrence `json:"occurrences"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Occurrences, 7)
	for i := 1; i < len(resp.Occurrences); i++ {
		assert.False(t, resp.Occurrences[i].Start.Before(resp.Occurrences[i-1].Start))
	}
}

func TestStatsStreakEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	base := time.Date(2024, time.January, 9, 9, 0, 0, 0, time.UTC)
	body := map[string]any{
		"occurrences": []model.EventOccurrence{
			{Start: base, End: base.Add(25 * time.Minute)},
			{Start: base.Add(29 * time.Minute), End: base.Add(54 * time.Minute)},
			{Start: base.Add(3 * time.Hour), End: base.Add(3*time.Hour + 25*time.Minute)},
		},
	}

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/stats/streak", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		MaxStreak int `json:"max_streak"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.MaxStreak)
}

func TestStatsWeeklyEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	start := time.Date(2024, time.January, 9, 10, 0, 0, 0, time.UTC)
	body := map[string]any{
		"occurrences": []model.EventOccurrence{
			{Tags: []string{"math"}, Start: start, End: start.Add(time.Hour)},
		},
	}

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/stats/weekly", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Totals []model.WeeklyTagTotal `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Totals, 1)
	assert.Equal(t, "math", resp.Totals[0].Tag)
	assert.Equal(t, 60, resp.Totals[0].Minutes)
}

func TestStatsTimelineEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	body := map[string]any{
		"entries": []model.LogEntry{
			{Date: today.AddDate(0, 0, -2), Value: 7},
			{Date: today, Value: 4},
		},
	}

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/stats/timeline", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Timeline []model.TimelineEntry `json:"timeline"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Timeline, 3)
	assert.True(t, resp.Timeline[0].HasLog)
	assert.False(t, resp.Timeline[1].HasLog)
}

func TestStatsEndpointsRequirePost(t *testing.T) {
	srv := newTestServer(t, nil)
	h := srv.Handler()
	for _, path := range []string{
		"/api/stats/weekly",
		"/api/stats/focus",
		"/api/stats/streak",
		"/api/stats/timeline",
		"/api/stats/tasks",
	} {
		rec := doJSON(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestStatsRejectsBadJSON(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/stats/streak", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBasicAuth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "user", Password: "secret"}
	srv := newTestServer(t, cfg)
	h := srv.Handler()

	// Health stays open.
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// API requires credentials.
	rec = doJSON(t, h, http.MethodGet, "/api/week", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/week", nil)
	req.SetBasicAuth("user", "secret")
	got := httptest.NewRecorder()
	h.ServeHTTP(got, req)
	assert.Equal(t, http.StatusOK, got.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/week", nil)
	req.SetBasicAuth("user", "wrong")
	got = httptest.NewRecorder()
	h.ServeHTTP(got, req)
	assert.Equal(t, http.StatusUnauthorized, got.Code)
}
