package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

// TestSnapshot verifies the client decodes the workout list served by the API.
func TestSnapshot(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"w1","location":"home","mode":"record","dateTimeISO":"2024-03-01T18:00:00Z",` +
				`"trainingType":"Push","specificMuscle":null,"equipment":[],` +
				`"exercises":[{"id":"e1","name":"Bench Press","equipment":null,"sets":[{"set":1,"weight":80,"reps":5}]}]}]`))
		},
	})
	defer ts.Close()

	h, err := NewHTTPClient(ts.URL + "/").Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 1 {
		t.Fatalf("got %d workouts, want 1", len(h))
	}
	if h[0].Exercises[0].Sets[0].Weight != 80 {
		t.Errorf("weight = %v, want 80", h[0].Exercises[0].Sets[0].Weight)
	}
}

// TestSnapshotHTTPError verifies non-200 responses become errors.
func TestSnapshotHTTPError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	if _, err := NewHTTPClient(ts.URL).Snapshot(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

// TestSnapshotConnectionError verifies unreachable servers are reported.
func TestSnapshotConnectionError(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1")
	if _, err := client.Snapshot(context.Background()); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}
