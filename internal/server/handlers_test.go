package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/chart"
	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/alpha"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
)

const testKey = "test-key"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// newTestServer wires a server over a file-backed store in a temp dir.
func newTestServer(t *testing.T) (*Server, *session.Session) {
	t.Helper()
	store := storage.NewStore(storage.NewFileBlob(filepath.Join(t.TempDir(), "workouts_v1.json")), discard)
	sess := session.New(context.Background(), store, discard)
	return New(sess, alpha.NewProvider(sess, time.UTC, discard), testKey, discard), sess
}

func do(t *testing.T, s *Server, method, target, body string, key bool) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if key {
		req.Header.Set("X-API-Key", testKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

const benchWorkout = `{
  "location": "home",
  "mode": "record",
  "dateTimeISO": "2024-03-01T18:00:00Z",
  "trainingType": "Push",
  "exercises": [
    {"name": "  Bench Press ", "equipment": "Barbell", "sets": [
      {"weight": "80", "reps": "5"},
      {"weight": "82,5", "reps": "3"},
      {"weight": "abc", "reps": ""}
    ]}
  ]
}`

// TestCreateWorkout verifies a form submission is coerced, stored and listed.
func TestCreateWorkout(t *testing.T) {
	s, sess := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/workouts", benchWorkout, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var created models.Workout
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if created.Location != models.LocationHome || created.Mode != models.ModeRecord {
		t.Errorf("location/mode = %v/%v, want home/record", created.Location, created.Mode)
	}
	ex := created.Exercises[0]
	if ex.Name != "Bench Press" || len(ex.Sets) != 3 || ex.Sets[1].Weight != 82.5 || ex.Sets[2].Weight != 0 {
		t.Errorf("exercise = %+v", ex)
	}

	if got := len(sess.History()); got != 1 {
		t.Errorf("history = %d workouts, want 1", got)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/workouts", "", false)
	listed, err := models.DecodeHistory(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("listed = %+v, want the created workout", listed)
	}
}

// TestCreateWorkoutRequiresKey verifies mutations are rejected without the API key.
func TestCreateWorkoutRequiresKey(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := do(t, s, http.MethodPost, "/api/v1/workouts", benchWorkout, false); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/workouts/x", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

// TestCreateWorkoutInvalid verifies incomplete forms are rejected with 400.
func TestCreateWorkoutInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", "{"},
		{"no exercises", `{"trainingType":"Push","exercises":[]}`},
		{"no training type", `{"exercises":[{"name":"Squat","sets":[{"weight":"100","reps":"5"}]}]}`},
		{"empty name", `{"trainingType":"Legs","exercises":[{"name":"  ","sets":[{"weight":"100","reps":"5"}]}]}`},
		{"no sets", `{"trainingType":"Legs","exercises":[{"name":"Squat","sets":[]}]}`},
		{"unknown location", `{"location":"park","trainingType":"Legs","exercises":[{"name":"Squat","sets":[{"weight":"1","reps":"1"}]}]}`},
		{"record without time", `{"mode":"record","trainingType":"Legs","exercises":[{"name":"Squat","sets":[{"weight":"1","reps":"1"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, sess := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/api/v1/workouts", tt.body, true)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(sess.History()) != 0 {
				t.Error("invalid workout was stored")
			}
		})
	}
}

// TestDeleteWorkout verifies removal and that unknown ids are a no-op.
func TestDeleteWorkout(t *testing.T) {
	s, sess := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/workouts", benchWorkout, true)
	var created models.Workout
	json.NewDecoder(rec.Body).Decode(&created)

	if rec := do(t, s, http.MethodDelete, "/api/v1/workouts/missing", "", true); rec.Code != http.StatusNoContent {
		t.Errorf("missing id status = %d, want 204", rec.Code)
	}
	if len(sess.History()) != 1 {
		t.Fatal("unknown id removed a workout")
	}

	if rec := do(t, s, http.MethodDelete, "/api/v1/workouts/"+created.ID, "", true); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if len(sess.History()) != 0 {
		t.Error("workout still present after delete")
	}
}

// TestExerciseQueries verifies the catalog, summary and series endpoints.
func TestExerciseQueries(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/workouts", benchWorkout, true)

	var names []string
	json.NewDecoder(do(t, s, http.MethodGet, "/api/v1/exercises", "", false).Body).Decode(&names)
	if len(names) != 1 || names[0] != "Bench Press" {
		t.Errorf("catalog = %v, want [Bench Press]", names)
	}

	var summary history.Summary
	json.NewDecoder(do(t, s, http.MethodGet, "/api/v1/exercises/summary?name=bench+press", "", false).Body).Decode(&summary)
	if summary.Heaviest == nil || *summary.Heaviest != 82.5 {
		t.Errorf("heaviest = %v, want 82.5", summary.Heaviest)
	}
	if summary.Last == nil || len(summary.Last.Sets) != 3 {
		t.Errorf("last = %+v, want 3 sets", summary.Last)
	}

	var series []history.Point
	json.NewDecoder(do(t, s, http.MethodGet, "/api/v1/exercises/series?name=Bench%20Press", "", false).Body).Decode(&series)
	if len(series) != 1 || series[0].TopWeight != 82.5 || series[0].RepsAtTop != 3 {
		t.Errorf("series = %+v, want one point 82.5 × 3", series)
	}

	var volume []history.VolumePoint
	json.NewDecoder(do(t, s, http.MethodGet, "/api/v1/exercises/volume?name=Bench%20Press", "", false).Body).Decode(&volume)
	if len(volume) != 1 || volume[0].Tonnage != 647.5 {
		t.Errorf("volume = %+v, want tonnage 647.5", volume)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/exercises/summary", "", false); rec.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", rec.Code)
	}
}

// TestSuggestions verifies common names are offered before any history exists.
func TestSuggestions(t *testing.T) {
	s, _ := newTestServer(t)
	var names []string
	json.NewDecoder(do(t, s, http.MethodGet, "/api/v1/exercises/suggestions", "", false).Body).Decode(&names)
	if len(names) == 0 {
		t.Error("no suggestions for an empty history")
	}
}

// TestParseExercise verifies the form coercion endpoint.
func TestParseExercise(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/exercises/parse", `{"name":"Row","sets":[{"weight":"-5","reps":"8.0"}]}`, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var ex models.Exercise
	json.NewDecoder(rec.Body).Decode(&ex)
	if ex.Sets[0].Weight != 0 || ex.Sets[0].Reps != 8 {
		t.Errorf("set = %+v, want weight 0 reps 8", ex.Sets[0])
	}
}

// TestChart verifies the JSON plan and the SVG rendering.
func TestChart(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/workouts", benchWorkout, true)

	var plan chart.Plan
	json.NewDecoder(do(t, s, http.MethodGet, "/api/v1/chart?name=Bench+Press", "", false).Body).Decode(&plan)
	if plan.Empty || len(plan.Markers) != 1 || plan.NiceMax != 100 {
		t.Errorf("plan = %+v, want one marker and nice max 100", plan)
	}

	var placeholder chart.Plan
	json.NewDecoder(do(t, s, http.MethodGet, "/api/v1/chart", "", false).Body).Decode(&placeholder)
	if !placeholder.Empty {
		t.Error("chart without a name should be the placeholder plan")
	}

	rec := do(t, s, http.MethodGet, "/api/v1/chart.svg?name=Bench+Press", "", false)
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("body = %.40s, want an svg document", rec.Body)
	}
}

// TestExport verifies the workbook download headers and zip signature.
func TestExport(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/workouts", benchWorkout, true)

	rec := do(t, s, http.MethodGet, "/api/v1/export.xlsx", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("body is not a zip archive")
	}
}

// TestAlphaIngest verifies the CSV import endpoint and that re-imports add nothing.
func TestAlphaIngest(t *testing.T) {
	s, sess := newTestServer(t)
	csv := "\"Push · Day 1\";\"2026-02-17 5:04 h\";\"1:12 hr\"\n" +
		"\"1. Bench Press · Barbell · 6 reps\"\n" +
		"#;KG;REPS;RIR\n" +
		"1;102,5;6;0\n" +
		"2;100;6;0\n"

	for i, wantAdded := range []int{1, 0} {
		rec := do(t, s, http.MethodPost, "/api/v1/ingest/alpha", csv, true)
		if rec.Code != http.StatusOK {
			t.Fatalf("import %d status = %d: %s", i, rec.Code, rec.Body)
		}
		var result ingest.Result
		json.NewDecoder(rec.Body).Decode(&result)
		if result.WorkoutsAdded != wantAdded || result.SetsReceived != 2 {
			t.Errorf("import %d result = %+v, want %d added", i, result, wantAdded)
		}
	}
	if got := len(sess.History()); got != 1 {
		t.Errorf("history = %d workouts, want 1", got)
	}
}

// TestMetricsEndpoint verifies Prometheus metrics are exposed.
func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodGet, "/api/v1/exercises", "", false)

	rec := do(t, s, http.MethodGet, "/metrics", "", false)
	if !strings.Contains(rec.Body.String(), "liftlog_http_requests_total") {
		t.Error("metrics output lacks liftlog_http_requests_total")
	}
}
