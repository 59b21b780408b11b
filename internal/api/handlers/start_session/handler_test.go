package start_session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/service/selection/models"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Start(ctx context.Context) (*models.SessionResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*models.SessionResponse)
	return resp, args.Error(1)
}

func TestHandler_Created(t *testing.T) {
	svc := &mockService{}
	svc.On("Start", mock.Anything).Return(&models.SessionResponse{ID: "abc", Step: "selecting_service", Version: 1}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "selecting_service", body.Step)
}

func TestHandler_Failure(t *testing.T) {
	svc := &mockService{}
	svc.On("Start", mock.Anything).Return(nil, errors.New("redis down"))

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis")
}
