package httputil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bissquit/incident-tracker/internal/pkg/ctxlog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		want   slog.Level
	}{
		{name: "success", path: "/api/incidents", status: http.StatusOK, want: slog.LevelInfo},
		{name: "probe", path: "/healthz", status: http.StatusOK, want: slog.LevelDebug},
		{name: "client error", path: "/api/incidents", status: http.StatusNotFound, want: slog.LevelWarn},
		{name: "failing probe", path: "/readyz", status: http.StatusServiceUnavailable, want: slog.LevelError},
		{name: "server error", path: "/api/incidents", status: http.StatusInternalServerError, want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, requestLogLevel(tt.path, tt.status))
		})
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var handlerLogger *slog.Logger
	handler := middleware.RequestID(RequestLoggerMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerLogger = ctxlog.FromContext(r.Context())
		Error(w, http.StatusNotFound, "Incident not found")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/incidents/1", nil))

	require.NotNil(t, handlerLogger)
	assert.NotSame(t, slog.Default(), handlerLogger)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "http request", line["msg"])
	assert.EqualValues(t, http.StatusNotFound, line["status"])
	assert.Equal(t, "/api/incidents/1", line["path"])
	assert.NotEmpty(t, line["request_id"])
}

func TestRoutePattern(t *testing.T) {
	var seen string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req)
			seen = routePattern(req)
		})
	})
	r.Get("/api/incidents/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/incidents/42", nil))
	assert.Equal(t, "/api/incidents/{id}", seen)

	assert.Equal(t, unmatchedRoute, routePattern(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/incidents", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
}
