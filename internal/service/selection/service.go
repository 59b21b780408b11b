package selection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/session"
	catalogService "github.com/m04kA/SMC-StudioBooking/internal/service/catalog"
	"github.com/m04kA/SMC-StudioBooking/internal/service/selection/models"
	listSlots "github.com/m04kA/SMC-StudioBooking/internal/usecase/list_slots"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Операции мастера, под этими именами они попадают в метрики
const (
	OpStart         = "start"
	OpSelectService = "select_service"
	OpSelectDate    = "select_date"
	OpSetMode       = "set_mode"
	OpToggleSlot    = "toggle_slot"
	OpAdvance       = "advance"
	OpBack          = "back"
)

// Config настройки сервиса выбора
type Config struct {
	SessionTTL time.Duration // Время жизни сессии с момента последнего изменения
}

// Service ведет мастер бронирования: хранит сессии и применяет к ним переходы BookingFlow
type Service struct {
	sessions     SessionRepository
	services     ServiceCatalog
	slots        SlotCatalog
	flow         *domain.BookingFlow
	config       Config
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый сервис выбора
func NewService(
	sessions SessionRepository,
	services ServiceCatalog,
	slots SlotCatalog,
	flow *domain.BookingFlow,
	config Config,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		sessions:     sessions,
		services:     services,
		slots:        slots,
		flow:         flow,
		config:       config,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// transition переход над состоянием сессии
type transition func(ctx context.Context, state domain.SelectionState) (domain.SelectionState, error)

// Start создает новую сессию на шаге выбора услуги
func (s *Service) Start(ctx context.Context) (*models.SessionResponse, error) {
	now := s.timeProvider.Now().UTC()

	session := &domain.Session{
		ID:        uuid.New(),
		State:     s.flow.Start(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.config.SessionTTL),
	}

	created, err := s.sessions.Create(ctx, session)
	s.observe(OpStart, err)
	if err != nil {
		s.logger.Error("Start: failed to create session: %v", err)
		return nil, fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
	}

	s.logger.Info("Start: session=%s created, expires at %s", created.ID, created.ExpiresAt.Format(time.RFC3339))
	return s.View(created), nil
}

// Get возвращает текущее состояние сессии
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.SessionResponse, error) {
	session, err := s.load(ctx, "Get", id)
	if err != nil {
		return nil, err
	}
	return s.View(session), nil
}

// SelectService выбирает услугу. Если дата уже выбрана, каталог слотов пересчитывается
// под новую услугу; дата, ставшая недопустимой, сбрасывается.
func (s *Service) SelectService(ctx context.Context, id uuid.UUID, serviceID int64) (*models.SessionResponse, error) {
	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	return s.mutate(ctx, OpSelectService, id, func(ctx context.Context, state domain.SelectionState) (domain.SelectionState, error) {
		// 1. Проверяем шаг до обращения к каталогам
		if state.Step != domain.StepSelectingService && state.Step != domain.StepSelectingDateAndSlots {
			return domain.SelectionState{}, fmt.Errorf("%w: cannot change service in step %s", domain.ErrInvalidTransition, state.Step)
		}

		// 2. Получаем услугу
		svc, err := s.services.GetByID(ctx, serviceID)
		if err != nil {
			if errors.Is(err, catalogService.ErrServiceNotFound) {
				return domain.SelectionState{}, fmt.Errorf("%w: id=%d", ErrServiceNotFound, serviceID)
			}
			return domain.SelectionState{}, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		// 3. Пересчитываем каталог выбранной даты
		var catalog []domain.TimeSlot
		if state.HasDate() {
			resp, err := s.slots.Execute(ctx, &listSlots.Request{ServiceID: svc.ID, Date: state.Date})
			switch {
			case err == nil:
				catalog = resp.Slots
			case errors.Is(err, listSlots.ErrInvalidDate), errors.Is(err, listSlots.ErrDateTooFarInFuture):
				s.logger.Warn("SelectService: date %s is no longer bookable, clearing it", state.Date.Format(domain.DateFormat))
				state = state.Clone()
				state.Date = time.Time{}
			default:
				return domain.SelectionState{}, mapSlotsError(err)
			}
		}

		return s.flow.SelectService(state, *svc, catalog)
	})
}

// SelectDate выбирает дату и загружает каталог слотов для выбранной услуги
func (s *Service) SelectDate(ctx context.Context, id uuid.UUID, date time.Time) (*models.SessionResponse, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return s.mutate(ctx, OpSelectDate, id, func(ctx context.Context, state domain.SelectionState) (domain.SelectionState, error) {
		// 1. Проверяем переход без каталога, чтобы не ходить за слотами зря
		if _, err := s.flow.SelectDate(state, date, nil); err != nil {
			return domain.SelectionState{}, err
		}

		// 2. Загружаем каталог
		resp, err := s.slots.Execute(ctx, &listSlots.Request{ServiceID: state.Service.ID, Date: date})
		if err != nil {
			return domain.SelectionState{}, mapSlotsError(err)
		}

		return s.flow.SelectDate(state, date, resp.Slots)
	})
}

// SetMode переключает режим бронирования
func (s *Service) SetMode(ctx context.Context, id uuid.UUID, mode domain.BookingMode) (*models.SessionResponse, error) {
	return s.mutate(ctx, OpSetMode, id, func(_ context.Context, state domain.SelectionState) (domain.SelectionState, error) {
		return s.flow.SetMode(state, mode)
	})
}

// ToggleSlot добавляет слот в выбор или убирает его
func (s *Service) ToggleSlot(ctx context.Context, id uuid.UUID, slot string) (*models.SessionResponse, error) {
	label, err := types.NewTimeStringFromString(slot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.mutate(ctx, OpToggleSlot, id, func(_ context.Context, state domain.SelectionState) (domain.SelectionState, error) {
		return s.flow.ToggleSlot(state, label)
	})
}

// Advance переходит на следующий шаг. Шаг ввода контактов завершается только отправкой брони.
func (s *Service) Advance(ctx context.Context, id uuid.UUID) (*models.SessionResponse, error) {
	return s.mutate(ctx, OpAdvance, id, func(_ context.Context, state domain.SelectionState) (domain.SelectionState, error) {
		if state.Step == domain.StepEnteringCustomerDetails {
			return domain.SelectionState{}, fmt.Errorf("%w: use submit to finish step %s", domain.ErrInvalidTransition, state.Step)
		}
		return s.flow.Advance(state)
	})
}

// Back возвращает на предыдущий шаг
func (s *Service) Back(ctx context.Context, id uuid.UUID) (*models.SessionResponse, error) {
	return s.mutate(ctx, OpBack, id, func(_ context.Context, state domain.SelectionState) (domain.SelectionState, error) {
		return s.flow.Back(state)
	})
}

// View собирает ответ по сессии; итог всегда пересчитывается из текущего выбора
func (s *Service) View(session *domain.Session) *models.SessionResponse {
	rules := s.flow.Rules()
	return models.FromDomainSession(session, s.flow.Price(session.State), rules.MaxMultiSlots)
}

// mutate загружает сессию, применяет переход и сохраняет результат с проверкой версии.
// При ошибке перехода сессия не изменяется.
func (s *Service) mutate(ctx context.Context, op string, id uuid.UUID, apply transition) (*models.SessionResponse, error) {
	session, err := s.load(ctx, op, id)
	if err != nil {
		s.observe(op, err)
		return nil, err
	}

	next, err := apply(ctx, session.State)
	if err != nil {
		s.observe(op, err)
		s.logger.Warn("%s: session=%s step=%s rejected: %v", op, id, session.State.Step, err)
		return nil, err
	}

	session.State = next
	now := s.timeProvider.Now().UTC()
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(s.config.SessionTTL)

	updated, err := s.sessions.Update(ctx, session)
	if err != nil {
		err = mapSessionError(err)
		s.observe(op, err)
		if errors.Is(err, ErrVersionConflict) {
			s.logger.Warn("%s: session=%s was modified concurrently", op, id)
		} else {
			s.logger.Error("%s: failed to store session=%s: %v", op, id, err)
		}
		return nil, err
	}

	s.observe(op, nil)
	s.logger.Info("%s: session=%s step=%s version=%d", op, id, updated.State.Step, updated.Version)
	return s.View(updated), nil
}

// load получает сессию и отбрасывает истекшие
func (s *Service) load(ctx context.Context, op string, id uuid.UUID) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		err = mapSessionError(err)
		if errors.Is(err, ErrSessionNotFound) {
			s.logger.Warn("%s: session=%s not found", op, id)
		} else {
			s.logger.Error("%s: failed to get session=%s: %v", op, id, err)
		}
		return nil, err
	}

	if session.IsExpired(s.timeProvider.Now()) {
		s.logger.Warn("%s: session=%s expired at %s", op, id, session.ExpiresAt.Format(time.RFC3339))
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) observe(op string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(op, err)
	}
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, sessionRepo.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, sessionRepo.ErrVersionConflict):
		return ErrVersionConflict
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func mapSlotsError(err error) error {
	switch {
	case errors.Is(err, listSlots.ErrServiceNotFound):
		return ErrServiceNotFound
	case errors.Is(err, listSlots.ErrInvalidDate):
		return ErrInvalidDate
	case errors.Is(err, listSlots.ErrDateTooFarInFuture):
		return ErrDateTooFarInFuture
	case errors.Is(err, listSlots.ErrInvalidInput):
		return ErrInvalidInput
	default:
		return fmt.Errorf("%w: failed to load slots: %v", ErrInternal, err)
	}
}
