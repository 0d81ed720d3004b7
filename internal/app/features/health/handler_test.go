package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/idlehub/internal/app/features/health"
	"go.uber.org/zap"
)

func TestServe(t *testing.T) {
	tests := []struct {
		name     string
		ping     error
		wantCode int
		wantDB   string
	}{
		{"connected", nil, http.StatusOK, "connected"},
		{"down", errors.New("connection refused"), http.StatusServiceUnavailable, "disconnected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger := health.PingFunc(func(ctx context.Context) error { return tt.ping })
			handler := health.NewHandler(pinger, "postgres", zap.NewNop())

			rec := httptest.NewRecorder()
			health.Routes(handler).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
			}
			var response struct {
				Status   string `json:"status"`
				Backend  string `json:"backend"`
				Database string `json:"database"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if response.Database != tt.wantDB {
				t.Errorf("database: got %q, want %q", response.Database, tt.wantDB)
			}
			if response.Backend != "postgres" {
				t.Errorf("backend: got %q", response.Backend)
			}
		})
	}
}
