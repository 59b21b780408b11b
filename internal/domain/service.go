package domain

// Service is an immutable catalog entry (recording, mixing, rehearsal...).
// Prices are in cents.
type Service struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	HourlyPriceCents  int64  `json:"hourlyPriceCents"`
	FullDayPriceCents *int64 `json:"fullDayPriceCents,omitempty"`
	Description       string `json:"description"`
}

// HasFullDayPrice returns true if the service defines a flat full-day rate
func (s *Service) HasFullDayPrice() bool {
	return s.FullDayPriceCents != nil
}

func (s Service) clone() Service {
	if s.FullDayPriceCents != nil {
		v := *s.FullDayPriceCents
		s.FullDayPriceCents = &v
	}
	return s
}
