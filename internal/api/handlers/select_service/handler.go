package select_service

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/service/selection"
)

const (
	msgInvalidSessionID   = "некорректный ID сессии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgVersionConflict    = "сессия изменена параллельным запросом, повторите"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgDateNotBookable    = "дата недоступна для бронирования"
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

// Handle PUT /api/v1/sessions/{sessionId}/service
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("PUT /sessions/{id}/service - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	var req SelectServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /sessions/{id}/service - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SelectService(r.Context(), sessionID, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, selection.ErrSessionNotFound):
			h.logger.Warn("PUT /sessions/{id}/service - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, selection.ErrVersionConflict):
			h.logger.Warn("PUT /sessions/{id}/service - Version conflict: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgVersionConflict)

		case errors.Is(err, selection.ErrServiceNotFound):
			h.logger.Warn("PUT /sessions/{id}/service - Service not found: session_id=%s, service_id=%d", sessionID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, selection.ErrInvalidInput):
			h.logger.Warn("PUT /sessions/{id}/service - Invalid service ID: session_id=%s, service_id=%d", sessionID, req.ServiceID)
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		case errors.Is(err, selection.ErrInvalidDate), errors.Is(err, selection.ErrDateTooFarInFuture):
			h.logger.Warn("PUT /sessions/{id}/service - Date not bookable: session_id=%s", sessionID)
			handlers.RespondBadRequest(w, msgDateNotBookable)

		default:
			if handlers.RespondFlowError(w, err) {
				h.logger.Warn("PUT /sessions/{id}/service - Rejected: session_id=%s, error=%v", sessionID, err)
				return
			}
			h.logger.Error("PUT /sessions/{id}/service - Failed: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /sessions/{id}/service - Service selected: session_id=%s, service_id=%d", sessionID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
