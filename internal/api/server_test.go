package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordingHooks struct {
	commands     int
	interactions int
}

func (r *recordingHooks) HandleCommand(w http.ResponseWriter, _ *http.Request) {
	r.commands++
	w.WriteHeader(http.StatusOK)
}

func (r *recordingHooks) HandleInteraction(w http.ResponseWriter, _ *http.Request) {
	r.interactions++
	w.WriteHeader(http.StatusOK)
}

func newTestServer(metrics http.Handler) (*Server, *recordingHooks) {
	hooks := &recordingHooks{}
	return NewServer(hooks, metrics, Config{Host: "127.0.0.1", Port: 0}, nil), hooks
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestRootEndpoint(t *testing.T) {
	srv, _ := newTestServer(nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "bug-bot") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestWebhookRouting(t *testing.T) {
	srv, hooks := newTestServer(nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/commands", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("commands status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/interactive-component", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("interactions status = %d", w.Code)
	}

	if hooks.commands != 1 || hooks.interactions != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestWebhookRejectsGet(t *testing.T) {
	srv, hooks := newTestServer(nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/commands", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", w.Code)
	}
	if hooks.commands != 0 {
		t.Errorf("hook invoked for wrong method")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("# HELP bugbot_tickets_created_total\n"))
	})
	srv, _ := newTestServer(metrics)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "bugbot_tickets_created_total") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestMetricsDisabledWhenNil(t *testing.T) {
	srv, _ := newTestServer(nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}
