package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		method     string
		checks     map[string]Checker
		wantStatus int
		wantHealth string
		wantChecks map[string]string
		wantIssues int
	}{
		{
			name:       "all healthy",
			method:     http.MethodGet,
			checks:     map[string]Checker{"database": ok, "vector_store": ok},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
			wantChecks: map[string]string{"database": "ok", "vector_store": "ok"},
		},
		{
			name:       "no checks",
			method:     http.MethodGet,
			checks:     map[string]Checker{},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
			wantChecks: map[string]string{},
		},
		{
			name:       "one failing",
			method:     http.MethodGet,
			checks:     map[string]Checker{"database": ok, "vector_store": down},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
			wantChecks: map[string]string{"database": "ok", "vector_store": "error"},
			wantIssues: 1,
		},
		{
			name:       "wrong method",
			method:     http.MethodPost,
			checks:     map[string]Checker{"database": ok},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.checks)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, "/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantHealth == "" {
				return
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantHealth {
				t.Errorf("Status = %q, want %q", resp.Status, tt.wantHealth)
			}
			if resp.Timestamp == "" {
				t.Error("Timestamp is empty")
			}
			if len(resp.Checks) != len(tt.wantChecks) {
				t.Errorf("Checks = %v, want %v", resp.Checks, tt.wantChecks)
			}
			for name, want := range tt.wantChecks {
				if resp.Checks[name] != want {
					t.Errorf("Checks[%s] = %q, want %q", name, resp.Checks[name], want)
				}
			}
			if len(resp.Issues) != tt.wantIssues {
				t.Errorf("Issues = %v, want %d issues", resp.Issues, tt.wantIssues)
			}
		})
	}
}

func TestHealthHandler_CheckTimeout(t *testing.T) {
	var sawDeadline bool
	handler := NewHealthHandler(map[string]Checker{
		"database": func(ctx context.Context) error {
			_, sawDeadline = ctx.Deadline()
			return nil
		},
	})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if !sawDeadline {
		t.Error("check context has no deadline")
	}
}
