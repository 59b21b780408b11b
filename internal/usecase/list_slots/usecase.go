package list_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	catalogService "github.com/m04kA/SMC-StudioBooking/internal/service/catalog"
)

// UseCase use case для получения каталога слотов на дату
type UseCase struct {
	catalog      ServiceCatalog
	availability AvailabilitySource
	config       Config
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// availability может быть nil: тогда все слоты считаются занятыми.
func NewUseCase(
	catalog ServiceCatalog,
	availability AvailabilitySource,
	config Config,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:      catalog,
		availability: availability,
		config:       config,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения каталога слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	uc.logger.Info("ListSlots: service=%d, date=%s", req.ServiceID, date.Format(domain.DateFormat))

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogService.ErrServiceNotFound) {
			uc.logger.Warn("ListSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ListSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Валидация даты
	if err := validateDate(date, now, uc.config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("ListSlots: date validation failed: %v", err)
		return nil, err
	}

	// 5. Перебираем слоты рабочего окна
	labels := uc.config.Window.Labels()
	notBefore := earliestBookable(date, now, uc.config.MinBookingNoticeMinutes)

	slots := make([]domain.TimeSlot, 0, len(labels))
	for _, label := range labels {
		slot := domain.TimeSlot{
			Time:       label,
			PriceCents: service.HourlyPriceCents,
		}

		// Для сегодняшней даты слоты раньше now + notice недоступны без запроса
		if notBefore != "" && label.IsBefore(notBefore) {
			slots = append(slots, slot)
			continue
		}

		slot.Available = uc.checkAvailability(ctx, date, slot, service.ID)
		slots = append(slots, slot)
	}

	// 6. Если запрос отменен, результат проверок недостоверен
	if err := ctx.Err(); err != nil {
		uc.logger.Warn("ListSlots: request cancelled: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("ListSlots: generated %d slots for service=%d, date=%s",
		len(slots), service.ID, date.Format(domain.DateFormat))

	return &Response{
		Date:    date,
		Service: *service,
		Slots:   slots,
	}, nil
}

// checkAvailability спрашивает внешний источник; ошибка означает, что слот занят
func (uc *UseCase) checkAvailability(ctx context.Context, date time.Time, slot domain.TimeSlot, serviceID int64) bool {
	if uc.availability == nil {
		return false
	}

	available, err := uc.availability.CheckAvailability(ctx, date, slot.Time, serviceID)
	if uc.metrics != nil {
		uc.metrics.ObserveAvailabilityCheck(available, err)
	}
	if err != nil {
		uc.logger.Warn("ListSlots: availability check failed for %s %s: %v",
			date.Format(domain.DateFormat), slot.Time, err)
		return false
	}
	return available
}
