package list_slots

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// earliestBookable возвращает время, раньше которого слоты на сегодня недоступны.
// Пустая строка означает, что ограничения нет (дата не сегодня).
// Если now + notice выходит за пределы суток, недоступен весь день ("24:00").
func earliestBookable(requestDate, now time.Time, minBookingNoticeMinutes int) types.TimeString {
	if !isSameDay(requestDate, now) {
		return ""
	}

	current := types.NewTimeString(now)
	minutes, err := current.Minutes()
	if err != nil {
		return "24:00"
	}
	if minutes+minBookingNoticeMinutes >= 24*60 {
		return "24:00"
	}

	minAllowed, err := current.AddMinutes(minBookingNoticeMinutes)
	if err != nil {
		return "24:00"
	}
	return minAllowed
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return dateOf(date).Before(dateOf(now))
}

// dateOf обнуляет время, оставляя календарный день
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
