package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
)

type observation struct {
	method string
	route  string
	status int
}

type fakeMetrics struct {
	mu   sync.Mutex
	seen []observation
}

func (m *fakeMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, observation{method: method, route: route, status: status})
}

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Warn(format string, v ...interface{}) {}

func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}

func TestHTTPMetrics_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}

	router := mux.NewRouter()
	router.Use(HTTPMetrics(m))
	router.HandleFunc("/api/v1/sessions/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/4f1c8a52-7d3e-4a8f-9a55-1f6e2b7c9d10", nil))

	require.Len(t, m.seen, 1)
	assert.Equal(t, observation{method: http.MethodGet, route: "/api/v1/sessions/{sessionId}", status: http.StatusNotFound}, m.seen[0])
}

func TestHTTPMetrics_DefaultStatus(t *testing.T) {
	m := &fakeMetrics{}
	handler := HTTPMetrics(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, m.seen, 1)
	assert.Equal(t, http.StatusOK, m.seen[0].status)
	assert.Equal(t, unmatchedRoute, m.seen[0].route)
}

func TestRecovery(t *testing.T) {
	handler := Recovery(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRequestLogger(t *testing.T) {
	log := &recordingLogger{}
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
	require.Len(t, log.infos, 1)
	assert.Contains(t, log.infos[0], "POST /api/v1/sessions - 201")
	assert.Contains(t, log.infos[0], "request_id=req-1")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	require.Len(t, log.errors, 1)
	assert.Contains(t, log.errors[0], "GET /fail - 502")
}
