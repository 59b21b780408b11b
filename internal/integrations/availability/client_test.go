package availability

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
)

var testDate = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

// recordingLogger запоминает предупреждения и ошибки
type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) Info(string, ...interface{}) {}

func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.record("WARN " + fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.record("ERROR " + fmt.Sprintf(format, v...))
}

func (l *recordingLogger) record(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func TestClient_CheckAvailability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/availability", r.URL.Path)
		assert.Equal(t, "2025-06-03", r.URL.Query().Get("date"))
		assert.Equal(t, "2", r.URL.Query().Get("serviceId"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("time") == "10:00" {
			_, _ = w.Write([]byte(`{"available": false}`))
			return
		}
		_, _ = w.Write([]byte(`{"available": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second, logger.NewNop())

	available, err := client.CheckAvailability(context.Background(), testDate, "09:00", 2)
	require.NoError(t, err)
	assert.True(t, available)

	available, err = client.CheckAvailability(context.Background(), testDate, "10:00", 2)
	require.NoError(t, err)
	assert.False(t, available)
}

func TestClient_CheckAvailabilityErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: ErrInvalidResponse},
		{name: "bad json", status: http.StatusOK, body: `{"available":`, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, time.Second, logger.NewNop()).CheckAvailability(context.Background(), testDate, "09:00", 1)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second, logger.NewNop()).CheckAvailability(context.Background(), testDate, "09:00", 1)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestClient_LogsUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`maintenance`))
	}))
	defer server.Close()

	log := &recordingLogger{}
	_, err := NewClient(server.URL, time.Second, log).CheckAvailability(context.Background(), testDate, "09:00", 1)
	require.ErrorIs(t, err, ErrInvalidResponse)

	require.Len(t, log.entries, 1)
	assert.Contains(t, log.entries[0], "WARN AvailabilityService returned status 503")
	assert.Contains(t, log.entries[0], "maintenance")
}
