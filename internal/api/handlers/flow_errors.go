package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

const (
	msgSelectionLimitExceeded = "превышено количество слотов для выбранного режима"
	msgIncompleteSelection    = "выбор не завершен: нужны услуга, дата и слоты"
	msgIncompleteContactInfo  = "укажите имя и корректный email"
	msgSlotUnavailable        = "слот недоступен"
	msgInvalidTransition      = "действие недоступно на текущем шаге"
	msgInvalidMode            = "некорректный режим бронирования"
	msgSubmissionFailed       = "бронирование отклонено"
	msgSubmissionUnresolved   = "исход предыдущей отправки неизвестен, отправьте бронь без изменений"
)

// RespondFlowError отвечает на ошибки мастера бронирования.
// Возвращает false, если ошибка не относится к переходам BookingFlow.
func RespondFlowError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrSelectionLimitExceeded):
		RespondUnprocessable(w, msgSelectionLimitExceeded)
	case errors.Is(err, domain.ErrIncompleteSelection):
		RespondUnprocessable(w, msgIncompleteSelection)
	case errors.Is(err, domain.ErrIncompleteContactInfo):
		RespondUnprocessable(w, msgIncompleteContactInfo)
	case errors.Is(err, domain.ErrSlotUnavailable):
		RespondUnprocessable(w, msgSlotUnavailable)
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrStaleSubmission):
		RespondConflict(w, msgInvalidTransition)
	case errors.Is(err, domain.ErrSubmissionUnresolved):
		RespondConflict(w, msgSubmissionUnresolved)
	case errors.Is(err, domain.ErrInvalidMode):
		RespondBadRequest(w, msgInvalidMode)
	case errors.Is(err, domain.ErrSubmissionFailed):
		RespondBadGateway(w, err.Error())
	default:
		return false
	}
	return true
}
