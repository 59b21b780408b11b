package submit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/session"
)

// maxApplyAttempts сколько раз пытаться записать результат шлюза при конкурентных изменениях сессии
const maxApplyAttempts = 3

// UseCase use case для финализации черновика и отправки брони в шлюз
type UseCase struct {
	sessions     SessionRepository
	gateway      BookingGateway
	flow         *domain.BookingFlow
	config       Config
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessions SessionRepository,
	gateway BookingGateway,
	flow *domain.BookingFlow,
	config Config,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessions:     sessions,
		gateway:      gateway,
		flow:         flow,
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

// Execute выполняет use case отправки брони.
// Шлюз вызывается ровно один раз на попытку; вызов не прерывается отменой запроса клиента.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("SubmitBooking: session=%s", req.SessionID)

	// 2. Получаем сессию
	session, err := uc.loadSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем, что отправка возможна
	if err := checkSubmittable(session); err != nil {
		uc.logger.Warn("SubmitBooking: session=%s in step %s: %v", session.ID, session.State.Step, err)
		return nil, err
	}

	// 4. Сохраняем контакты и собираем черновик; пустые поля берутся из сессии
	state, err := uc.flow.SetContact(session.State, mergeContact(session.State.Contact, req.Contact))
	if err != nil {
		uc.logger.Warn("SubmitBooking: session=%s: %v", session.ID, err)
		return nil, err
	}

	state, draft, err := uc.flow.Finalize(state)
	if err != nil {
		uc.logger.Warn("SubmitBooking: session=%s finalize failed: %v", session.ID, err)
		return nil, err
	}

	// 5. Фиксируем переход в submitting; проигравший гонку запрос не вызывает шлюз
	session.State = state
	uc.touch(session)

	claimed, err := uc.sessions.Update(ctx, session)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrVersionConflict) {
			uc.logger.Warn("SubmitBooking: session=%s was modified concurrently", session.ID)
			return nil, ErrSubmissionInProgress
		}
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("SubmitBooking: failed to store session=%s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: failed to store session: %v", ErrInternal, err)
	}

	uc.logger.Info("SubmitBooking: session=%s draft=%s total=%d time=%s",
		claimed.ID, draft.ID, draft.TotalCents, draft.TimeDescriptor())

	// 6. Вызываем шлюз, отвязав вызов от отмены клиентского запроса
	detached := context.WithoutCancel(ctx)
	result, callErr := uc.callGateway(detached, draft)

	// 7. Применяем результат к актуальной версии сессии
	updated, err := uc.applyResult(detached, claimed.ID, draft.ID, result, callErr != nil)
	if err != nil {
		if errors.Is(err, domain.ErrStaleSubmission) {
			uc.observe(resultStale)
			uc.logger.Warn("SubmitBooking: result for draft=%s (success=%t confirmation=%q) not applied, already resolved in session=%s",
				draft.ID, result.Success, result.ConfirmationID, claimed.ID)
		}
		return nil, err
	}

	if !result.Success {
		if callErr != nil {
			uc.observe(resultError)
		} else {
			uc.observe(resultRejected)
		}
		uc.logger.Warn("SubmitBooking: draft=%s failed: %s", draft.ID, result.Reason)
		return nil, fmt.Errorf("%w: %s", domain.ErrSubmissionFailed, result.Reason)
	}

	uc.observe(resultConfirmed)
	uc.logger.Info("SubmitBooking: draft=%s confirmed as %s", draft.ID, result.ConfirmationID)

	return &Response{
		Session:        updated,
		Draft:          draft,
		ConfirmationID: result.ConfirmationID,
	}, nil
}

// callGateway делает один вызов шлюза с ограничением по времени.
// Ошибка транспорта превращается в отказ с причиной "booking gateway unavailable".
func (uc *UseCase) callGateway(ctx context.Context, draft domain.BookingDraft) (*domain.SubmissionResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.config.GatewayTimeout)
	defer cancel()

	result, err := uc.gateway.Submit(callCtx, draft)
	if err != nil {
		uc.logger.Error("SubmitBooking: gateway call for draft=%s failed: %v", draft.ID, err)
		return &domain.SubmissionResult{Success: false, Reason: gatewayUnavailableReason}, err
	}
	if result == nil {
		uc.logger.Error("SubmitBooking: gateway returned no result for draft=%s", draft.ID)
		return &domain.SubmissionResult{Success: false, Reason: gatewayUnavailableReason}, ErrInternal
	}
	return result, nil
}

// applyResult записывает исход отправки, перечитывая сессию при конкурентных изменениях.
// unknown: шлюз не ответил, черновик остается ожидающим.
func (uc *UseCase) applyResult(ctx context.Context, sessionID, draftID uuid.UUID, result *domain.SubmissionResult, unknown bool) (*domain.Session, error) {
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		session, err := uc.sessions.Get(ctx, sessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				return nil, ErrSessionNotFound
			}
			uc.logger.Error("SubmitBooking: failed to reload session=%s: %v", sessionID, err)
			return nil, fmt.Errorf("%w: failed to reload session: %v", ErrInternal, err)
		}

		var next domain.SelectionState
		switch {
		case result.Success:
			next, err = uc.flow.CompleteSubmission(session.State, draftID, result.ConfirmationID)
		case unknown:
			next, err = uc.flow.InterruptSubmission(session.State, draftID, result.Reason)
		default:
			next, err = uc.flow.FailSubmission(session.State, draftID, result.Reason)
		}
		if err != nil {
			return nil, err
		}

		session.State = next
		uc.touch(session)

		updated, err := uc.sessions.Update(ctx, session)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, sessionRepo.ErrVersionConflict) {
			uc.logger.Error("SubmitBooking: failed to store result for session=%s: %v", sessionID, err)
			return nil, fmt.Errorf("%w: failed to store result: %v", ErrInternal, err)
		}
		uc.logger.Warn("SubmitBooking: version conflict on session=%s, attempt %d/%d", sessionID, attempt, maxApplyAttempts)
	}

	return nil, fmt.Errorf("%w: session %s is being modified concurrently", ErrInternal, sessionID)
}

// loadSession получает сессию и отбрасывает истекшие
func (uc *UseCase) loadSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("SubmitBooking: session=%s not found", id)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("SubmitBooking: failed to get session=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
	}

	if session.IsExpired(uc.timeProvider.Now()) {
		uc.logger.Warn("SubmitBooking: session=%s expired at %s", id, session.ExpiresAt)
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// touch продлевает сессию
func (uc *UseCase) touch(s *domain.Session) {
	now := uc.timeProvider.Now().UTC()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(uc.config.SessionTTL)
}

func (uc *UseCase) observe(result string) {
	if uc.metrics != nil {
		uc.metrics.ObserveSubmission(result)
	}
}
