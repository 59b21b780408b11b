package models

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
)

// SessionResponse представление сессии мастера бронирования
type SessionResponse struct {
	ID             string          `json:"id"`
	Step           string          `json:"step"`
	Mode           string          `json:"mode"`
	Date           *string         `json:"date,omitempty"` // YYYY-MM-DD
	Service        *ServiceSummary `json:"service,omitempty"`
	Slots          []string        `json:"slots"`
	Catalog        []SlotResponse  `json:"catalog"`
	Contact        ContactResponse `json:"contact"`
	TotalCents     int64           `json:"totalCents"`
	Total          string          `json:"total"`
	MaxMultiSlots  int             `json:"maxMultiSlots"`
	Draft          *DraftResponse  `json:"draft,omitempty"`
	Pending        bool            `json:"submissionPending"`
	ConfirmationID string          `json:"confirmationId,omitempty"`
	FailureReason  string          `json:"failureReason,omitempty"`
	Version        int64           `json:"version"`
	ExpiresAt      time.Time       `json:"expiresAt"`
}

// ServiceSummary выбранная услуга
type ServiceSummary struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	HourlyPriceCents  int64  `json:"hourlyPriceCents"`
	FullDayPriceCents *int64 `json:"fullDayPriceCents,omitempty"`
}

// SlotResponse слот каталога с признаком выбора
type SlotResponse struct {
	Time       string `json:"time"`
	Available  bool   `json:"available"`
	Selected   bool   `json:"selected"`
	PriceCents int64  `json:"priceCents"`
}

// ContactResponse контактные данные клиента
type ContactResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// DraftResponse черновик брони
type DraftResponse struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Time        string   `json:"time"` // "full-day" или "09:00,10:00"
	Slots       []string `json:"slots,omitempty"`
	FullDay     bool     `json:"fullDay"`
	ServiceID   int64    `json:"serviceId"`
	ServiceName string   `json:"serviceName"`
	TotalCents  int64    `json:"totalCents"`
	Total       string   `json:"total"`
}

// FromDomainSession конвертирует сессию в ответ.
// totalCents передается отдельно: цена всегда пересчитывается из текущего выбора.
func FromDomainSession(s *domain.Session, totalCents int64, maxMultiSlots int) *SessionResponse {
	state := s.State

	resp := &SessionResponse{
		ID:             s.ID.String(),
		Step:           string(state.Step),
		Mode:           string(state.Mode),
		Slots:          make([]string, 0, len(state.Slots)),
		Catalog:        make([]SlotResponse, 0, len(state.Catalog)),
		TotalCents:     totalCents,
		Total:          domain.FormatCents(totalCents),
		MaxMultiSlots:  maxMultiSlots,
		ConfirmationID: state.ConfirmationID,
		FailureReason:  state.FailureReason,
		Pending:        state.SubmissionPending,
		Version:        s.Version,
		ExpiresAt:      s.ExpiresAt,
		Contact: ContactResponse{
			Name:  state.Contact.Name,
			Email: state.Contact.Email,
			Phone: state.Contact.Phone,
		},
	}

	if state.HasDate() {
		resp.Date = ptr.Ptr(state.Date.Format(domain.DateFormat))
	}

	if state.Service != nil {
		resp.Service = &ServiceSummary{
			ID:               state.Service.ID,
			Name:             state.Service.Name,
			HourlyPriceCents: state.Service.HourlyPriceCents,
		}
		if state.Service.FullDayPriceCents != nil {
			resp.Service.FullDayPriceCents = ptr.Ptr(*state.Service.FullDayPriceCents)
		}
	}

	for _, slot := range state.Slots {
		resp.Slots = append(resp.Slots, slot.String())
	}

	for _, slot := range state.Catalog {
		resp.Catalog = append(resp.Catalog, SlotResponse{
			Time:       slot.Time.String(),
			Available:  slot.Available,
			Selected:   state.IsSelected(slot.Time),
			PriceCents: slot.PriceCents,
		})
	}

	if state.Draft != nil {
		resp.Draft = FromDomainDraft(*state.Draft)
	}

	return resp
}

// FromDomainDraft конвертирует черновик брони в ответ
func FromDomainDraft(d domain.BookingDraft) *DraftResponse {
	resp := &DraftResponse{
		ID:          d.ID.String(),
		Date:        d.Date.Format(domain.DateFormat),
		Time:        d.TimeDescriptor(),
		FullDay:     d.FullDay,
		ServiceID:   d.ServiceID,
		ServiceName: d.ServiceName,
		TotalCents:  d.TotalCents,
		Total:       domain.FormatCents(d.TotalCents),
	}
	for _, slot := range d.Slots {
		resp.Slots = append(resp.Slots, slot.String())
	}
	return resp
}
