package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tailscale.com/client/tailscale/apitype"
	"tailscale.com/tailcfg"
)

// TestRequestLogging verifies that the logging middleware calls the next handler and records status.
func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if !strings.Contains(buf.String(), "status=201") {
		t.Errorf("log = %q, want status=201", buf.String())
	}
	if strings.Contains(buf.String(), "user=") {
		t.Errorf("log = %q, want no user without tailscale", buf.String())
	}
}

type fakeWhoIs struct {
	login string
	err   error
}

func (f fakeWhoIs) WhoIs(context.Context, string) (*apitype.WhoIsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &apitype.WhoIsResponse{UserProfile: &tailcfg.UserProfile{LoginName: f.login}}, nil
}

// TestTailnetIdentityLogged verifies the tailnet login shows up in request logs.
func TestTailnetIdentityLogged(t *testing.T) {
	var buf bytes.Buffer
	s, _ := newTestServer(t)
	s.log = slog.New(slog.NewTextHandler(&buf, nil))
	s.whois = fakeWhoIs{login: "alice@example.com"}

	handler := s.identity(RequestLogging(s.log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := loginFromContext(r); got != "alice@example.com" {
			t.Errorf("login = %q, want alice@example.com", got)
		}
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "user=alice@example.com") {
		t.Errorf("log = %q, want user=alice@example.com", buf.String())
	}
}

// TestTailnetIdentityFailure verifies a failed lookup does not block the request.
func TestTailnetIdentityFailure(t *testing.T) {
	s, _ := newTestServer(t)
	s.whois = fakeWhoIs{err: errors.New("not a tailnet peer")}

	called := false
	handler := s.identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if got := loginFromContext(r); got != "" {
			t.Errorf("login = %q, want empty", got)
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("next handler not called")
	}
}

// TestCORSHeaders verifies that CORS headers are set on cross-origin responses.
func TestCORSHeaders(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exercises", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin = %q, want *", got)
	}
}

// TestCORSPreflight verifies that preflight requests are answered without auth.
func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/workouts", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-API-Key")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code >= 300 {
		t.Errorf("status = %d, want 2xx", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPost) {
		t.Errorf("allowed methods = %q, want POST", got)
	}
}
