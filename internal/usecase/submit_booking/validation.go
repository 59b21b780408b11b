package submit_booking

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.SessionID == uuid.Nil {
		return fmt.Errorf("%w: sessionID is required", ErrInvalidInput)
	}
	return nil
}

// checkSubmittable проверяет, что сессию можно отправить
func checkSubmittable(s *domain.Session) error {
	switch s.State.Step {
	case domain.StepConfirmed:
		return ErrAlreadyConfirmed
	case domain.StepSubmitting:
		return ErrSubmissionInProgress
	}
	return nil
}

// mergeContact дополняет пустые поля запроса сохраненными контактами,
// чтобы повторная отправка не требовала вводить их заново
func mergeContact(stored, given domain.ContactInfo) domain.ContactInfo {
	merged := given
	if strings.TrimSpace(merged.Name) == "" {
		merged.Name = stored.Name
	}
	if strings.TrimSpace(merged.Email) == "" {
		merged.Email = stored.Email
	}
	if strings.TrimSpace(merged.Phone) == "" {
		merged.Phone = stored.Phone
	}
	return merged
}
