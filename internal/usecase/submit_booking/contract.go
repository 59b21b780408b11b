package submit_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// SessionRepository интерфейс хранилища сессий
type SessionRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) (*domain.Session, error)
}

// BookingGateway интерфейс внешнего шлюза бронирования и оплаты
type BookingGateway interface {
	// Submit отправляет черновик; ошибка означает, что результат неизвестен
	Submit(ctx context.Context, draft domain.BookingDraft) (*domain.SubmissionResult, error)
}

// Metrics интерфейс метрик
type Metrics interface {
	ObserveSubmission(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
