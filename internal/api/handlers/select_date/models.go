package select_date

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// SelectDateRequest HTTP request model
type SelectDateRequest struct {
	Date string `json:"date"` // "2025-06-03"
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func (r *SelectDateRequest) ParseDate() (time.Time, error) {
	return time.Parse(domain.DateFormat, r.Date)
}
