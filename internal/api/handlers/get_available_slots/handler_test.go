package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	listSlots "github.com/m04kA/SMC-StudioBooking/internal/usecase/list_slots"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *listSlots.Request) (*listSlots.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*listSlots.Response)
	return resp, args.Error(1)
}

func serve(uc ListSlotsUseCase, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/services/{serviceId}/slots", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_Success(t *testing.T) {
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &listSlots.Request{ServiceID: 1, Date: date}).Return(&listSlots.Response{
		Date:    date,
		Service: domain.Service{ID: 1, Name: "Recording", HourlyPriceCents: 7500},
		Slots: []domain.TimeSlot{
			{Time: "09:00", Available: true, PriceCents: 7500},
			{Time: "10:00", Available: false, PriceCents: 7500},
		},
	}, nil)

	rec := serve(uc, "/api/v1/services/1/slots?date=2025-06-03")
	require.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-06-03", body.Date)
	assert.Equal(t, "Recording", body.ServiceName)
	require.Len(t, body.Slots, 2)
	assert.Equal(t, AvailableSlot{Time: "09:00", DurationMinutes: 60, Available: true, PriceCents: 7500, Price: "75.00"}, body.Slots[0])
	assert.False(t, body.Slots[1].Available)
}

func TestHandler_BadRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "non numeric service", target: "/api/v1/services/abc/slots?date=2025-06-03"},
		{name: "zero service", target: "/api/v1/services/0/slots?date=2025-06-03"},
		{name: "missing date", target: "/api/v1/services/1/slots"},
		{name: "bad date", target: "/api/v1/services/1/slots?date=03.06.2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := serve(uc, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNumberOfCalls(t, "Execute", 0)
		})
	}
}

func TestHandler_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: listSlots.ErrServiceNotFound, status: http.StatusNotFound},
		{err: listSlots.ErrInvalidDate, status: http.StatusBadRequest},
		{err: listSlots.ErrDateTooFarInFuture, status: http.StatusBadRequest},
		{err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(uc, "/api/v1/services/1/slots?date=2025-06-03")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
