package submit_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// Config настройки отправки брони
type Config struct {
	GatewayTimeout time.Duration // Ограничение на один вызов шлюза
	SessionTTL     time.Duration // Продление жизни сессии при каждой записи
}

// Request модель запроса на отправку брони
type Request struct {
	SessionID uuid.UUID          // ID сессии мастера
	Contact   domain.ContactInfo // Контактные данные клиента
}

// Response модель ответа после подтверждения брони
type Response struct {
	Session        *domain.Session     // Сессия в состоянии confirmed
	Draft          domain.BookingDraft // Отправленный черновик
	ConfirmationID string              // Номер подтверждения от шлюза
}

// Submission results for metrics
const (
	resultConfirmed = "confirmed"
	resultRejected  = "rejected"
	resultError     = "error"
	resultStale     = "stale"
)
