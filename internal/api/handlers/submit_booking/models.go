package submit_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/service/selection/models"
	submitBooking "github.com/m04kA/SMC-StudioBooking/internal/usecase/submit_booking"
)

// SubmitBookingRequest HTTP request model
type SubmitBookingRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// SubmitBookingResponse HTTP response model
type SubmitBookingResponse struct {
	SessionID      string                `json:"sessionId"`
	Step           string                `json:"step"`
	ConfirmationID string                `json:"confirmationId"`
	Booking        *models.DraftResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitBookingRequest) ToUseCaseRequest(sessionID uuid.UUID) *submitBooking.Request {
	return &submitBooking.Request{
		SessionID: sessionID,
		Contact: domain.ContactInfo{
			Name:  r.Name,
			Email: r.Email,
			Phone: r.Phone,
		},
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitBooking.Response) *SubmitBookingResponse {
	return &SubmitBookingResponse{
		SessionID:      resp.Session.ID.String(),
		Step:           string(resp.Session.State.Step),
		ConfirmationID: resp.ConfirmationID,
		Booking:        models.FromDomainDraft(resp.Draft),
	}
}
