package list_services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/service/catalog"
	"github.com/m04kA/SMC-StudioBooking/internal/service/catalog/models"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
)

func TestHandler_Handle(t *testing.T) {
	svc, err := catalog.NewService([]domain.Service{
		{ID: 1, Name: "Recording", HourlyPriceCents: 7500},
		{ID: 2, Name: "Mixing", HourlyPriceCents: 6000, FullDayPriceCents: ptr.Ptr(int64(40000))},
	}, logger.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/services", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body models.ServiceListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Services, 2)
	assert.Equal(t, "Recording", body.Services[0].Name)
	assert.Equal(t, "75.00", body.Services[0].HourlyPrice)
	assert.Nil(t, body.Services[0].FullDayPriceCents)
	require.NotNil(t, body.Services[1].FullDayPriceCents)
	assert.Equal(t, int64(40000), *body.Services[1].FullDayPriceCents)
}
