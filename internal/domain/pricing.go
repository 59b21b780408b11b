package domain

import "fmt"

// Price returns the total in cents for a booking of slotCount slots.
//
// full-day: the flat full-day rate if the service defines one,
// otherwise hourly price × window hours. The slot count is ignored.
// single, multi: hourly price × slot count.
func Price(service Service, mode BookingMode, slotCount int, window OperatingWindow) int64 {
	if mode == ModeFullDay {
		if service.FullDayPriceCents != nil {
			return *service.FullDayPriceCents
		}
		return service.HourlyPriceCents * int64(window.Hours())
	}

	if slotCount <= 0 {
		return 0
	}
	return service.HourlyPriceCents * int64(slotCount)
}

// FormatCents renders an amount in cents as "75.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
