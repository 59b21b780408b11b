package advance_step

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

// Handle POST /api/v1/sessions/{sessionId}/advance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/advance - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	result, err := h.service.Advance(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, selection.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/advance - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, selection.ErrVersionConflict):
			h.logger.Warn("POST /sessions/{id}/advance - Version conflict: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgVersionConflict)

		default:
			if handlers.RespondFlowError(w, err) {
				h.logger.Warn("POST /sessions/{id}/advance - Rejected: session_id=%s, error=%v", sessionID, err)
				return
			}
			h.logger.Error("POST /sessions/{id}/advance - Failed: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/advance - Advanced: session_id=%s, step=%s", sessionID, result.Step)
	handlers.RespondJSON(w, http.StatusOK, result)
}
