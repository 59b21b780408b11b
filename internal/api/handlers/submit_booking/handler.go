package submit_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	submitBooking "github.com/m04kA/SMC-StudioBooking/internal/usecase/submit_booking"
)

const (
	msgInvalidSessionID    = "некорректный ID сессии"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgSessionNotFound     = "сессия не найдена или истекла"
	msgAlreadyConfirmed    = "бронирование уже подтверждено"
	msgSubmissionInProcess = "бронирование уже отправляется"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/submit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/submit - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/submit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(sessionID))
	if err != nil {
		switch {
		case errors.Is(err, submitBooking.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/submit - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, submitBooking.ErrAlreadyConfirmed):
			h.logger.Warn("POST /sessions/{id}/submit - Already confirmed: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgAlreadyConfirmed)

		case errors.Is(err, submitBooking.ErrSubmissionInProgress):
			h.logger.Warn("POST /sessions/{id}/submit - Submission in progress: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgSubmissionInProcess)

		case errors.Is(err, submitBooking.ErrInvalidInput):
			h.logger.Warn("POST /sessions/{id}/submit - Invalid input: session_id=%s, error=%v", sessionID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			if handlers.RespondFlowError(w, err) {
				h.logger.Warn("POST /sessions/{id}/submit - Rejected: session_id=%s, error=%v", sessionID, err)
				return
			}
			h.logger.Error("POST /sessions/{id}/submit - Failed: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/submit - Booking confirmed: session_id=%s, confirmation_id=%s",
		sessionID, result.ConfirmationID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
