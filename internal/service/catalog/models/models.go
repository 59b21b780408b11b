package models

import (
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// ServiceResponse услуга студии
type ServiceResponse struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	HourlyPriceCents  int64  `json:"hourlyPriceCents"`
	HourlyPrice       string `json:"hourlyPrice"` // "75.00"
	FullDayPriceCents *int64 `json:"fullDayPriceCents,omitempty"`
	FullDayPrice      string `json:"fullDayPrice,omitempty"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainService конвертирует domain.Service в ServiceResponse
func FromDomainService(svc domain.Service) ServiceResponse {
	resp := ServiceResponse{
		ID:               svc.ID,
		Name:             svc.Name,
		Description:      svc.Description,
		HourlyPriceCents: svc.HourlyPriceCents,
		HourlyPrice:      domain.FormatCents(svc.HourlyPriceCents),
	}
	if svc.FullDayPriceCents != nil {
		price := *svc.FullDayPriceCents
		resp.FullDayPriceCents = &price
		resp.FullDayPrice = domain.FormatCents(price)
	}
	return resp
}

// FromDomainServiceList конвертирует список услуг
func FromDomainServiceList(services []domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}
	for _, svc := range services {
		resp.Services = append(resp.Services, FromDomainService(svc))
	}
	return resp
}
