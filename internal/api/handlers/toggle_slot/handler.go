package toggle_slot

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/service/selection"
)

const (
	msgInvalidSessionID = "некорректный ID сессии"
	msgSessionNotFound  = "сессия не найдена или истекла"
	msgVersionConflict  = "сессия изменена параллельным запросом, повторите"
	msgInvalidTime      = "некорректный формат времени, ожидается HH:MM"
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

// Handle POST /api/v1/sessions/{sessionId}/slots/{time}/toggle
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/slots/{time}/toggle - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	slot := mux.Vars(r)["time"]

	result, err := h.service.ToggleSlot(r.Context(), sessionID, slot)
	if err != nil {
		switch {
		case errors.Is(err, selection.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/slots/{time}/toggle - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, selection.ErrVersionConflict):
			h.logger.Warn("POST /sessions/{id}/slots/{time}/toggle - Version conflict: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgVersionConflict)

		case errors.Is(err, selection.ErrInvalidInput):
			h.logger.Warn("POST /sessions/{id}/slots/{time}/toggle - Invalid slot: session_id=%s, time=%q", sessionID, slot)
			handlers.RespondBadRequest(w, msgInvalidTime)

		default:
			if handlers.RespondFlowError(w, err) {
				h.logger.Warn("POST /sessions/{id}/slots/{time}/toggle - Rejected: session_id=%s, error=%v", sessionID, err)
				return
			}
			h.logger.Error("POST /sessions/{id}/slots/{time}/toggle - Failed: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/slots/{time}/toggle - Slot toggled: session_id=%s, time=%s", sessionID, slot)
	handlers.RespondJSON(w, http.StatusOK, result)
}
