package middleware

import "time"

// Metrics интерфейс HTTP метрик
type Metrics interface {
	ObserveHTTPRequest(method, route string, status int, elapsed time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
