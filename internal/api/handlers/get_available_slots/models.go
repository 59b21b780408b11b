package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	listSlots "github.com/m04kA/SMC-StudioBooking/internal/usecase/list_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date        string          `json:"date"`
	ServiceID   int64           `json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	Slots       []AvailableSlot `json:"slots"`
}

// AvailableSlot модель часового слота
type AvailableSlot struct {
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
	PriceCents      int64  `json:"priceCents"`
	Price           string `json:"price"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *listSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Time:            slot.Time.String(),
			DurationMinutes: domain.SlotDurationMinutes,
			Available:       slot.Available,
			PriceCents:      slot.PriceCents,
			Price:           domain.FormatCents(slot.PriceCents),
		}
	}

	return &AvailableSlotsResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		ServiceID:   resp.Service.ID,
		ServiceName: resp.Service.Name,
		Slots:       slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(serviceID int64, dateStr string) (*listSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &listSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}, nil
}
