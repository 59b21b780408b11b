package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/service/catalog/models"
)

// Service каталог услуг студии.
// Список задается конфигурацией при старте и дальше не меняется.
type Service struct {
	services []domain.Service
	byID     map[int64]domain.Service
	logger   Logger
}

// NewService создает каталог и проверяет его корректность
func NewService(services []domain.Service, logger Logger) (*Service, error) {
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrInvalidCatalog)
	}

	s := &Service{
		services: make([]domain.Service, 0, len(services)),
		byID:     make(map[int64]domain.Service, len(services)),
		logger:   logger,
	}

	for _, svc := range services {
		if err := validateService(svc); err != nil {
			return nil, err
		}
		if _, exists := s.byID[svc.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate service id=%d", ErrInvalidCatalog, svc.ID)
		}
		s.byID[svc.ID] = svc
		s.services = append(s.services, svc)
	}

	return s, nil
}

// List возвращает все услуги в порядке конфигурации
func (s *Service) List(ctx context.Context) *models.ServiceListResponse {
	s.logger.Info("List: returning %d services", len(s.services))
	return models.FromDomainServiceList(s.services)
}

// GetByID возвращает копию услуги по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	svc, ok := s.byID[id]
	if !ok {
		s.logger.Warn("GetByID: service id=%d not found", id)
		return nil, ErrServiceNotFound
	}

	// Копируем указатель на цену, чтобы вызывающий код не мог изменить каталог
	if svc.FullDayPriceCents != nil {
		price := *svc.FullDayPriceCents
		svc.FullDayPriceCents = &price
	}
	return &svc, nil
}

func validateService(svc domain.Service) error {
	if svc.ID <= 0 {
		return fmt.Errorf("%w: service id must be positive", ErrInvalidCatalog)
	}
	if strings.TrimSpace(svc.Name) == "" {
		return fmt.Errorf("%w: service id=%d has no name", ErrInvalidCatalog, svc.ID)
	}
	if svc.HourlyPriceCents <= 0 {
		return fmt.Errorf("%w: service id=%d hourly price must be positive", ErrInvalidCatalog, svc.ID)
	}
	if svc.FullDayPriceCents != nil && *svc.FullDayPriceCents <= 0 {
		return fmt.Errorf("%w: service id=%d full-day price must be positive", ErrInvalidCatalog, svc.ID)
	}
	return nil
}
