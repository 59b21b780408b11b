package select_date

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/service/selection/models"
)

type SelectionService interface {
	SelectDate(ctx context.Context, id uuid.UUID, date time.Time) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
