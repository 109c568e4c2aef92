package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asyncell-dev/asyncell/pkg/cell"
	"github.com/asyncell-dev/asyncell/pkg/todo"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	scope := cell.NewScope(nil)
	t.Cleanup(scope.Dispose)

	repo := todo.NewMemoryRepo(todo.WithSeed([]todo.Item{{ID: 0, Title: "seed"}}))
	ctrl := todo.NewController(scope, repo)
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}

	srv := New(ctrl, DefaultConfig())
	t.Cleanup(srv.Close)
	return srv
}

func decodeState(t *testing.T, body *bytes.Buffer) stateDTO {
	t.Helper()
	var dto stateDTO
	if err := json.NewDecoder(body).Decode(&dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return dto
}

func TestGetTodos(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	dto := decodeState(t, rec.Body)
	if dto.State != "data" {
		t.Errorf("state = %q, want data", dto.State)
	}
	if len(dto.Items) != 1 || dto.Items[0].Title != "seed" {
		t.Errorf("items = %v, want the seed item", dto.Items)
	}
}

func TestAddTodo(t *testing.T) {
	srv := newTestServer(t)

	body := strings.NewReader(`{"title":"ship it"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/todos", body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	dto := decodeState(t, rec.Body)
	if len(dto.Items) != 2 {
		t.Fatalf("items = %v, want 2 entries", dto.Items)
	}
	last := dto.Items[1]
	if last.ID != 1 || last.Title != "ship it" {
		t.Errorf("appended = %+v, want {ID:1 Title:ship it}", last)
	}
}

func TestAddTodoValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty title", `{"title":"  "}`},
		{"missing title", `{}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestRemoveLast(t *testing.T) {
	srv := newTestServer(t)

	// Grow to two items first.
	req := httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"title":"extra"}`))
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodDelete, "/api/todos/last", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	dto := decodeState(t, rec.Body)
	if len(dto.Items) != 1 || dto.Items[0].Title != "seed" {
		t.Errorf("items = %v, want just the seed item", dto.Items)
	}
}

func TestRemoveLastGuardOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	// Single element: remove must be a no-op, not an error.
	req := httptest.NewRequest(http.MethodDelete, "/api/todos/last", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	dto := decodeState(t, rec.Body)
	if len(dto.Items) != 1 {
		t.Errorf("items = %v, want unchanged single item", dto.Items)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/todos/refresh", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if dto := decodeState(t, rec.Body); dto.State != "data" {
		t.Errorf("state = %q, want data", dto.State)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Drive a transition so the counter has a sample.
	req := httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"title":"x"}`))
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, metric := range []string{
		"asyncell_cell_transitions_total",
		"asyncell_cell_watchers",
		"asyncell_mutation_duration_seconds",
		"asyncell_http_requests_total",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %s", metric)
		}
	}
}

func TestErrorStateSurfaced(t *testing.T) {
	scope := cell.NewScope(nil)
	t.Cleanup(scope.Dispose)

	repo := todo.NewMemoryRepo()
	ctrl := todo.NewController(scope, repo)
	srv := New(ctrl, DefaultConfig())
	t.Cleanup(srv.Close)

	repo.FailWith(context.DeadlineExceeded)
	req := httptest.NewRequest(http.MethodPost, "/api/todos/refresh", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	// The cell itself is now in the error state and GET reflects it.
	req = httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	dto := decodeState(t, rec.Body)
	if dto.State != "error" || dto.Error == "" {
		t.Errorf("snapshot = %+v, want error state with message", dto)
	}
}

func TestRunGracefulShutdown(t *testing.T) {
	srv := newTestServer(t)
	srv.cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run = %v, want nil on graceful shutdown", err)
	}
}
