package bookinggateway

import (
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// IdempotencyKeyHeader заголовок, по которому шлюз отбрасывает повторы
const IdempotencyKeyHeader = "Idempotency-Key"

// BookingRequest тело запроса на создание брони
type BookingRequest struct {
	DraftID     string   `json:"draftId"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Slots       []string `json:"slots,omitempty"`
	FullDay     bool     `json:"fullDay"`
	ServiceID   int64    `json:"serviceId"`
	ServiceName string   `json:"serviceName"`
	TotalCents  int64    `json:"totalCents"`
	Customer    Customer `json:"customer"`
}

// Customer контактные данные клиента
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// ConfirmationResponse успешный ответ шлюза
type ConfirmationResponse struct {
	ConfirmationID string `json:"confirmationId"`
}

// RejectionResponse отказ шлюза (оплата не прошла, слот занят и т.п.)
type RejectionResponse struct {
	Reason string `json:"reason"`
}

// FromDomainDraft конвертирует черновик брони в тело запроса
func FromDomainDraft(draft domain.BookingDraft) BookingRequest {
	req := BookingRequest{
		DraftID:     draft.ID.String(),
		Date:        draft.Date.Format(domain.DateFormat),
		FullDay:     draft.FullDay,
		ServiceID:   draft.ServiceID,
		ServiceName: draft.ServiceName,
		TotalCents:  draft.TotalCents,
		Customer: Customer{
			Name:  draft.Customer.Name,
			Email: draft.Customer.Email,
			Phone: draft.Customer.Phone,
		},
	}
	for _, slot := range draft.Slots {
		req.Slots = append(req.Slots, slot.String())
	}
	return req
}
