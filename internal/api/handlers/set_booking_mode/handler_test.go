package set_booking_mode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/service/selection"
	"github.com/m04kA/SMC-StudioBooking/internal/service/selection/models"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) SetMode(ctx context.Context, id uuid.UUID, mode domain.BookingMode) (*models.SessionResponse, error) {
	args := m.Called(ctx, id, mode)
	resp, _ := args.Get(0).(*models.SessionResponse)
	return resp, args.Error(1)
}

func serve(svc SelectionService, sessionID string, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/sessions/{sessionId}/mode", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPut)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+sessionID+"/mode", strings.NewReader(body))
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Success(t *testing.T) {
	sessionID := uuid.New()
	svc := &mockService{}
	svc.On("SetMode", mock.Anything, sessionID, domain.ModeMulti).Return(&models.SessionResponse{ID: sessionID.String(), Step: "selecting_date_and_slots", Version: 3}, nil)

	rec := serve(svc, sessionID.String(), `{"mode":"multi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)

	var body models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, sessionID.String(), body.ID)
	assert.Equal(t, int64(3), body.Version)
}

func TestHandler_InvalidSessionID(t *testing.T) {
	svc := &mockService{}

	rec := serve(svc, "not-a-uuid", `{"mode":"multi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNumberOfCalls(t, "SetMode", 0)
}

func TestHandler_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `multi`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			rec := serve(svc, uuid.NewString(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNumberOfCalls(t, "SetMode", 0)
		})
	}
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: selection.ErrSessionNotFound, status: http.StatusNotFound},
		{err: selection.ErrVersionConflict, status: http.StatusConflict},
		{err: domain.ErrInvalidTransition, status: http.StatusConflict},
		{err: domain.ErrInvalidMode, status: http.StatusBadRequest},
		{err: errors.New("storage down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &mockService{}
			svc.On("SetMode", mock.Anything, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("wrapped: %w", tt.err))

			rec := serve(svc, uuid.NewString(), `{"mode":"multi"}`)
			assert.Equal(t, tt.status, rec.Code)

			var body struct {
				Code int `json:"code"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Code)
		})
	}
}
