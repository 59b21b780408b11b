package list_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// ServiceCatalog интерфейс каталога услуг студии
type ServiceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// AvailabilitySource интерфейс внешнего источника занятости слотов
type AvailabilitySource interface {
	// CheckAvailability возвращает true, если слот свободен
	CheckAvailability(ctx context.Context, date time.Time, slot types.TimeString, serviceID int64) (bool, error)
}

// Metrics интерфейс метрик
type Metrics interface {
	ObserveAvailabilityCheck(available bool, err error)
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
