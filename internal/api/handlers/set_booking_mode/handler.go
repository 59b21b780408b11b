package set_booking_mode

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/service/selection"
)

const (
	msgInvalidSessionID   = "некорректный ID сессии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgVersionConflict    = "сессия изменена параллельным запросом, повторите"
)

type Handler struct {
	service SelectionService
	logger  Logger
}

func NewHandler(service SelectionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/sessions/{sessionId}/mode
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("PUT /sessions/{id}/mode - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	var req SetModeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /sessions/{id}/mode - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetMode(r.Context(), sessionID, domain.BookingMode(req.Mode))
	if err != nil {
		switch {
		case errors.Is(err, selection.ErrSessionNotFound):
			h.logger.Warn("PUT /sessions/{id}/mode - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, selection.ErrVersionConflict):
			h.logger.Warn("PUT /sessions/{id}/mode - Version conflict: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgVersionConflict)

		default:
			if handlers.RespondFlowError(w, err) {
				h.logger.Warn("PUT /sessions/{id}/mode - Rejected: session_id=%s, error=%v", sessionID, err)
				return
			}
			h.logger.Error("PUT /sessions/{id}/mode - Failed: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /sessions/{id}/mode - Mode set: session_id=%s, mode=%s", sessionID, req.Mode)
	handlers.RespondJSON(w, http.StatusOK, result)
}
