package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader заголовок с ID запроса
const RequestIDHeader = "X-Request-ID"

// RequestLogger пишет в лог каждый запрос и проставляет X-Request-ID
func RequestLogger(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			elapsed := time.Since(start).Milliseconds()
			if rec.status >= http.StatusInternalServerError {
				logger.Error("%s %s - %d in %dms, request_id=%s", r.Method, r.URL.Path, rec.status, elapsed, reqID)
				return
			}
			logger.Info("%s %s - %d in %dms, request_id=%s", r.Method, r.URL.Path, rec.status, elapsed, reqID)
		})
	}
}
