package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccess_OmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, http.StatusOK, "Incident deleted successfully", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Incident deleted successfully", body["message"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "count")
}

func TestList_KeepsZeroCountAndEmptyData(t *testing.T) {
	rec := httptest.NewRecorder()

	List(rec, 0, []string{})

	body := decodeEnvelope(t, rec)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()

	ValidationError(rec, []string{"first", "second"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation error", body["message"])
	assert.Equal(t, []interface{}{"first", "second"}, body["errors"])
}

func TestServerError_Details(t *testing.T) {
	tests := []struct {
		name   string
		expose bool
	}{
		{name: "development exposes detail", expose: true},
		{name: "production hides detail", expose: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			ServerError(rec, "Server error", errors.New("connection reset"), tt.expose)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := decodeEnvelope(t, rec)
			if tt.expose {
				assert.Equal(t, "connection reset", body["error"])
			} else {
				assert.NotContains(t, body, "error")
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	errMissing := errors.New("missing")
	mappings := []ErrorMapping{
		{Error: errMissing, Status: http.StatusNotFound, Message: NotFoundMessage("incident")},
	}

	t.Run("mapped error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleError(t.Context(), rec, errors.Join(errMissing), mappings, true)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Incident not found", decodeEnvelope(t, rec)["message"])
	})

	t.Run("unmapped error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleError(t.Context(), rec, errors.New("boom"), mappings, true)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Equal(t, "Server error", body["message"])
		assert.Equal(t, "boom", body["error"])
	})
}

func TestDecode(t *testing.T) {
	type payload struct {
		Type        *string `json:"type"`
		Description *string `json:"description"`
	}

	t.Run("json body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"Outage"}`))
		req.Header.Set("Content-Type", "application/json")

		var p payload
		require.NoError(t, Decode(httptest.NewRecorder(), req, &p))
		require.NotNil(t, p.Type)
		assert.Equal(t, "Outage", *p.Type)
		assert.Nil(t, p.Description)
	})

	t.Run("form body", func(t *testing.T) {
		form := url.Values{"type": {"Outage"}, "description": {"power loss in DC-1"}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

		var p payload
		require.NoError(t, Decode(httptest.NewRecorder(), req, &p))
		require.NotNil(t, p.Description)
		assert.Equal(t, "power loss in DC-1", *p.Description)
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		req.Header.Set("Content-Type", "application/json")

		var p payload
		require.NoError(t, Decode(httptest.NewRecorder(), req, &p))
		assert.Nil(t, p.Type)
		assert.Nil(t, p.Description)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":`))

		var p payload
		assert.Error(t, Decode(httptest.NewRecorder(), req, &p))
	})
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("wildcard", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://example.com")

		CORSMiddleware([]string{"*"})(next).ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("listed origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://ops.example.com")

		CORSMiddleware([]string{"https://ops.example.com"})(next).ServeHTTP(rec, req)

		assert.Equal(t, "https://ops.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/incidents", nil)

		CORSMiddleware([]string{"*"})(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})
}

func TestRecovererMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil map write")
	})

	rec := httptest.NewRecorder()
	RecovererMiddleware(false)(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Something went wrong!", body["message"])
	assert.NotContains(t, body, "error")
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitMiddleware(rate.NewLimiter(rate.Limit(0.001), 1))(next)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRouteNotFound(t *testing.T) {
	rec := httptest.NewRecorder()

	RouteNotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeEnvelope(t, rec)["message"])
}
