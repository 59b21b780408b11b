package list_slots

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// Config настройки каталога слотов
type Config struct {
	Window                  domain.OperatingWindow // Рабочее окно студии
	AdvanceBookingDays      int                    // На сколько дней вперед можно бронировать (0 = без ограничений)
	MinBookingNoticeMinutes int                    // Минимальное время до начала слота для сегодняшней даты
}

// Request модель запроса на получение каталога слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата (без времени)
}

// Response модель ответа с каталогом слотов
type Response struct {
	Date    time.Time         // Дата, на которую запрашивались слоты
	Service domain.Service    // Услуга, для которой рассчитаны цены
	Slots   []domain.TimeSlot // Все слоты рабочего окна в хронологическом порядке
}
