package select_date

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
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgPastDate           = "дата в прошлом"
	msgDateTooFar         = "дата слишком далеко в будущем"
	msgServiceNotFound    = "услуга не найдена"
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

// Handle PUT /api/v1/sessions/{sessionId}/date
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("PUT /sessions/{id}/date - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	var req SelectDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /sessions/{id}/date - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := req.ParseDate()
	if err != nil {
		h.logger.Warn("PUT /sessions/{id}/date - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.SelectDate(r.Context(), sessionID, date)
	if err != nil {
		switch {
		case errors.Is(err, selection.ErrSessionNotFound):
			h.logger.Warn("PUT /sessions/{id}/date - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, selection.ErrVersionConflict):
			h.logger.Warn("PUT /sessions/{id}/date - Version conflict: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgVersionConflict)

		case errors.Is(err, selection.ErrInvalidDate):
			h.logger.Warn("PUT /sessions/{id}/date - Past date: session_id=%s, date=%s", sessionID, req.Date)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, selection.ErrDateTooFarInFuture):
			h.logger.Warn("PUT /sessions/{id}/date - Date too far: session_id=%s, date=%s", sessionID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, selection.ErrInvalidInput):
			h.logger.Warn("PUT /sessions/{id}/date - Invalid date: session_id=%s, date=%s", sessionID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, selection.ErrServiceNotFound):
			h.logger.Warn("PUT /sessions/{id}/date - Service not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			if handlers.RespondFlowError(w, err) {
				h.logger.Warn("PUT /sessions/{id}/date - Rejected: session_id=%s, error=%v", sessionID, err)
				return
			}
			h.logger.Error("PUT /sessions/{id}/date - Failed: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /sessions/{id}/date - Date selected: session_id=%s, date=%s", sessionID, req.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
